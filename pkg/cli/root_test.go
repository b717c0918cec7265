package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()

	assert.Equal(t, "protoreg", root.Name)
	assert.NotNil(t, root.Flags)

	expectedCommands := []string{"post", "get", "version"}
	for _, name := range expectedCommands {
		assert.Contains(t, root.Subcommands, name)
		assert.NotNil(t, root.Subcommands[name])
	}
	assert.Equal(t, len(expectedCommands), len(root.Subcommands))
}

func TestExecute_UnknownCommand(t *testing.T) {
	root := NewRootCommand()

	err := root.Execute(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	assert.Equal(t, ExitUsage, ExitCode(err))
	assert.Contains(t, err.Error(), "unknown command")
}

func TestExecute_NoArgsPrintsUsage(t *testing.T) {
	root := NewRootCommand()
	assert.NoError(t, root.Execute(context.Background(), nil))
}
