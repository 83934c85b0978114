package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "library", cmd.Use)
	assert.Contains(t, cmd.Long, "SQLite catalog")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"shell", "add-book", "add-member", "search", "issue", "return", "loans", "report", "seed"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestAddBookCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"add-book"})
	require.NoError(t, err)

	for _, name := range []string{"title", "author", "isbn", "quantity"} {
		require.NotNil(t, addCmd.Flags().Lookup(name), "flag --%s", name)
	}
	assert.Equal(t, "0", addCmd.Flags().Lookup("quantity").DefValue)
}

func TestLendingCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"issue", "return"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			require.NotNil(t, sub.Flags().Lookup("book"))
			require.NotNil(t, sub.Flags().Lookup("member"))
		})
	}

	loansCmd, _, err := cmd.Find([]string{"loans"})
	require.NoError(t, err)
	require.NotNil(t, loansCmd.Flags().Lookup("member"))
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	assert.Contains(t, cmd.Short, "lending")
	assert.Contains(t, cmd.Long, "library shell")
	assert.Contains(t, cmd.Long, "LIBRARY_DB_PATH")
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}

func TestExecute_InvalidFormat(t *testing.T) {
	t.Setenv("LIBRARY_DB_PATH", t.TempDir()+"/library.db")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := Execute(context.Background(), []string{"report", "--format", "yaml"}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), `invalid format "yaml"`)
}

func TestExecute_UnknownFlag(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := Execute(context.Background(), []string{"report", "--nope"}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "unknown flag")
}

func TestExecute_ReportedFailureNotRepeated(t *testing.T) {
	t.Setenv("LIBRARY_DB_PATH", t.TempDir()+"/library.db")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := Execute(context.Background(), []string{"return", "--book", "1", "--member", "1"}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitFailure, code)
	assert.Equal(t, "Error [E_NOT_FOUND]: Failed to return book.\n", stdout.String())
	assert.NotContains(t, stderr.String(), "Error:")
}

func TestExecute_Success(t *testing.T) {
	t.Setenv("LIBRARY_DB_PATH", t.TempDir()+"/library.db")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	code := Execute(context.Background(), []string{"add-member", "--name", "Alice Brown"}, strings.NewReader(""), stdout, stderr)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Member added successfully! (id 1)\n", stdout.String())
}
