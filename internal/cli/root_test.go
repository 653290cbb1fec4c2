package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := NewRootCommand()

	want := []string{"serve", "seed", "reset"}
	for _, name := range want {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
			}
		}
		assert.True(t, found, "missing subcommand %q", name)
	}
}

func TestRootCommand_GlobalFlags(t *testing.T) {
	root := NewRootCommand()

	require.NotNil(t, root.PersistentFlags().Lookup("config"))
	require.NotNil(t, root.PersistentFlags().Lookup("verbose"))
}
