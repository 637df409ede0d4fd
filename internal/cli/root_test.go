package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alumnet-dev/alumnet/internal/cli/commands"
)

func TestVersionRunsOffline(t *testing.T) {
	rt := &commands.Runtime{}
	cmd := NewRootCmd(rt)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "alumnet version dev\n", out.String())
	require.Nil(t, rt.App, "version needs no session")
}

func TestCommandTree(t *testing.T) {
	cmd := NewRootCmd(&commands.Runtime{})

	for _, path := range [][]string{
		{"login"}, {"logout"}, {"whoami"}, {"register"}, {"forgot-password"},
		{"profile", "edit"}, {"profile", "password"},
		{"directory"}, {"map"}, {"dashboard"}, {"shell"},
		{"admin", "login"}, {"admin", "pending"}, {"admin", "approve"},
	} {
		found, _, err := cmd.Find(path)
		require.NoError(t, err, path)
		require.Equal(t, path[len(path)-1], found.Name())
	}
}
