package cli

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Publishing a tree, retrieving it, and publishing the retrieved copy
// to a second registry must register byte-identical schemas with the
// same reference shape.
func TestRoundTrip(t *testing.T) {
	source := newFakeServer()
	tsSource := httptest.NewServer(source.handler())
	defer tsSource.Close()

	dir := t.TempDir()
	writeFile(t, dir, "user.proto", `syntax = "proto3";
package demo;

// The user record.
import "address.proto";

message User {
  string name = 1;
  Address home = 2;
}
`)
	writeFile(t, dir, "address.proto", `syntax = "proto3";
package demo;

message Address {
  string street = 1;
}
`)

	err := executePost(t, &bytes.Buffer{}, []string{
		"-record", "demo.User",
		"-strip-comments",
		"-file", filepath.Join(dir, "user.proto"),
		tsSource.URL,
	})
	require.NoError(t, err)

	retrieved := t.TempDir()
	err = executeGet(t, &bytes.Buffer{}, []string{
		"-record", "demo.User",
		"-out", retrieved,
		tsSource.URL,
	})
	require.NoError(t, err)

	target := newFakeServer()
	tsTarget := httptest.NewServer(target.handler())
	defer tsTarget.Close()

	err = executePost(t, &bytes.Buffer{}, []string{
		"-record", "demo.User",
		"-strip-comments",
		"-file", filepath.Join(retrieved, "demo", "User.proto"),
		"-include", retrieved,
		tsTarget.URL,
	})
	require.NoError(t, err)

	for _, subject := range []string{"demo.User", "demo.Address"} {
		sourceVersions := source.versions(subject)
		targetVersions := target.versions(subject)
		require.Len(t, sourceVersions, 1, subject)
		require.Len(t, targetVersions, 1, subject)
		assert.Equal(t, sourceVersions[0].Schema, targetVersions[0].Schema, subject)
		assert.Equal(t, sourceVersions[0].References, targetVersions[0].References, subject)
	}
}
