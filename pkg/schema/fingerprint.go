package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/platinummonkey/protoreg/pkg/registry"
)

// Fingerprint computes a stable content fingerprint over canonical
// schema text and its reference set. Two schemas with the same canonical
// content but different resolved dependency versions fingerprint
// differently, so a dependency bump re-registers dependents.
func Fingerprint(canonical string, references []registry.Reference) string {
	h := sha256.New()
	h.Write([]byte(canonical))

	refs := append([]registry.Reference(nil), references...)
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Subject != refs[j].Subject {
			return refs[i].Subject < refs[j].Subject
		}
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].Version < refs[j].Version
	})

	for _, ref := range refs {
		fmt.Fprintf(h, "\x00%s\x00%s\x00%d", ref.Name, ref.Subject, ref.Version)
	}

	return hex.EncodeToString(h.Sum(nil))
}
