package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platinummonkey/protoreg/pkg/registry"
)

func TestFingerprint(t *testing.T) {
	canonical := "syntax = \"proto3\";\nmessage A {}\n"

	refA := registry.Reference{Name: "a.proto", Subject: "demo.A", Version: 1}
	refB := registry.Reference{Name: "b.proto", Subject: "demo.B", Version: 2}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t,
			Fingerprint(canonical, []registry.Reference{refA, refB}),
			Fingerprint(canonical, []registry.Reference{refA, refB}))
	})

	t.Run("reference order irrelevant", func(t *testing.T) {
		assert.Equal(t,
			Fingerprint(canonical, []registry.Reference{refA, refB}),
			Fingerprint(canonical, []registry.Reference{refB, refA}))
	})

	t.Run("content sensitive", func(t *testing.T) {
		assert.NotEqual(t,
			Fingerprint(canonical, nil),
			Fingerprint(canonical+"// tail\n", nil))
	})

	t.Run("reference version sensitive", func(t *testing.T) {
		bumped := refA
		bumped.Version = 2
		assert.NotEqual(t,
			Fingerprint(canonical, []registry.Reference{refA}),
			Fingerprint(canonical, []registry.Reference{bumped}))
	})

	t.Run("empty references match nil", func(t *testing.T) {
		assert.Equal(t,
			Fingerprint(canonical, nil),
			Fingerprint(canonical, []registry.Reference{}))
	})
}
