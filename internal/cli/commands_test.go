package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mustafa861/library/internal/catalog"
	"github.com/mustafa861/library/internal/config"
	"github.com/mustafa861/library/internal/testutil"
)

// cliEnv runs commands against one temporary database and a fixed clock.
type cliEnv struct {
	t      *testing.T
	dbPath string
	clock  *testutil.FixedClock
	cfg    *config.Config
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")
	return &cliEnv{
		t:      t,
		dbPath: dbPath,
		clock:  testutil.NewFixedClock(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)),
		cfg:    &config.Config{DBPath: dbPath, LoanDays: catalog.DefaultLoanDays, LogLevel: "info"},
	}
}

// run executes the root command with args and returns its stdout.
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	opts := &RootOptions{Clock: e.clock, config: e.cfg}
	cmd := newRootCommand(opts)

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--db", e.dbPath))

	err := cmd.Execute()
	return out.String(), err
}

// mustRun executes args and fails the test on error.
func (e *cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "library %v", args)
	return out
}

func TestCommands_LendingScenario(t *testing.T) {
	env := newCLIEnv(t)
	transcript := &bytes.Buffer{}
	record := func(out string) { transcript.WriteString(out) }

	record(env.mustRun("add-book", "--title", "Python Programming", "--author", "John Smith", "--isbn", "ISBN123", "--quantity", "5"))
	record(env.mustRun("add-book", "--title", "Dune", "--author", "Frank Herbert", "--isbn", "ISBN999", "--quantity", "2"))
	record(env.mustRun("add-member", "--name", "Alice Brown", "--email", "alice@email.com", "--phone", "1234567890"))
	record(env.mustRun("issue", "--book", "2", "--member", "1"))
	record(env.mustRun("search", "Dune"))
	record(env.mustRun("loans", "--member", "1"))

	env.clock.AdvanceDays(20)
	record(env.mustRun("report"))
	record(env.mustRun("return", "--book", "2", "--member", "1"))

	out, err := env.run("return", "--book", "2", "--member", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	record(out)

	record(env.mustRun("loans", "--member", "1"))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "lending_scenario", transcript.Bytes())
}

func TestCommands_IssueUnavailable(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add-book", "--title", "Dune", "--author", "Frank Herbert", "--quantity", "1")
	env.mustRun("add-member", "--name", "Alice Brown")
	env.mustRun("add-member", "--name", "Bob Green")
	env.mustRun("issue", "--book", "1", "--member", "1")

	out, err := env.run("issue", "--book", "1", "--member", "2")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.ErrorIs(t, err, catalog.ErrNoCopiesAvailable)
	assert.Equal(t, "Error [E_NOT_FOUND]: Failed to issue book.\n", out)

	out = env.mustRun("search", "Dune")
	assert.Contains(t, out, "Available: 0/1")
}

func TestCommands_DuplicateISBN(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add-book", "--title", "Python Programming", "--author", "John Smith", "--isbn", "ISBN123", "--quantity", "5")

	out, err := env.run("add-book", "--title", "Other", "--author", "Someone", "--isbn", "ISBN123", "--quantity", "1", "--format", "json")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConstraint, resp.Error.Code)
	assert.Equal(t, "Failed to add book.", resp.Error.Message)
}

func TestCommands_InvalidInput(t *testing.T) {
	env := newCLIEnv(t)

	out, err := env.run("add-member", "--name", "Alice", "--email", "not-an-email")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "Error [E_INVALID]: Failed to add member.\n", out)
}

func TestCommands_MissingRequiredFlag(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run("add-book", "--title", "Dune")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "required flag")
}

func TestCommands_SearchJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add-book", "--title", "Python Programming", "--author", "John Smith", "--isbn", "ISBN123", "--quantity", "5")
	env.mustRun("add-book", "--title", "Data Structures", "--author", "Jane Doe", "--quantity", "3")

	out := env.mustRun("search", "Python", "--format", "json")

	assert.JSONEq(t, `{
		"status": "ok",
		"data": [
			{"id": 1, "title": "Python Programming", "author": "John Smith", "isbn": "ISBN123", "quantity": 5, "available": 5}
		]
	}`, out)

	out = env.mustRun("search", "python", "--format", "json")
	assert.JSONEq(t, `{"status":"ok","data":[]}`, out)
}

func TestCommands_LoansEmpty(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add-member", "--name", "Alice Brown")

	out := env.mustRun("loans", "--member", "1")

	assert.Equal(t, "No books currently issued.\n", out)
}

func TestCommands_ReportJSON(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add-book", "--title", "Dune", "--author", "Frank Herbert", "--quantity", "2")
	env.mustRun("add-member", "--name", "Alice Brown")
	env.mustRun("issue", "--book", "1", "--member", "1")

	out := env.mustRun("report", "--format", "json")

	assert.JSONEq(t, `{
		"status": "ok",
		"data": {"titles": 1, "copies": 2, "available": 1, "members": 1, "open_loans": 1, "overdue_loans": 0}
	}`, out)
}

func TestCommands_Seed(t *testing.T) {
	env := newCLIEnv(t)
	seedFile := filepath.Join("..", "seed", "testdata", "demo.yaml")

	out := env.mustRun("seed", seedFile)
	assert.Equal(t, "Books:   2 added, 0 skipped\nMembers: 1 added, 0 skipped\n", out)

	out = env.mustRun("seed", seedFile)
	assert.Equal(t, "Books:   0 added, 2 skipped\nMembers: 0 added, 1 skipped\n", out)
}

func TestCommands_SeedInvalidFile(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("books:\n  - title: Dune\n    quantity: -1\n"), 0o644))

	out, err := env.run("seed", path, "--format", "json")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.True(t, isReported(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSeed, resp.Error.Code)
}

func TestCommands_ShellSession(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("add-book", "--title", "Dune", "--author", "Frank Herbert", "--quantity", "2")

	opts := &RootOptions{Clock: env.clock, config: env.cfg}
	cmd := newRootCommand(opts)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(bytes.NewBufferString("3\nDune\n7\n"))
	cmd.SetArgs([]string{"shell", "--db", env.dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "ID: 1, Title: Dune, Author: Frank Herbert, ISBN: -, Available: 2/2")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestCommands_CannotOpenDatabase(t *testing.T) {
	env := newCLIEnv(t)
	env.dbPath = filepath.Join(t.TempDir(), "missing", "dir", "library.db")

	_, err := env.run("report")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestCommands_VerboseNamesDatabase(t *testing.T) {
	env := newCLIEnv(t)

	opts := &RootOptions{Clock: env.clock, config: env.cfg}
	cmd := newRootCommand(opts)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"report", "--format", "json", "--verbose", "--db", env.dbPath})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, errOut.String(), "Using database: "+env.dbPath+" (loan period 14 days)")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), "verbose output must stay off stdout")
	assert.Equal(t, "ok", resp.Status)
}

func TestCommands_QuietOmitsDatabase(t *testing.T) {
	env := newCLIEnv(t)

	opts := &RootOptions{Clock: env.clock, config: env.cfg}
	cmd := newRootCommand(opts)
	errOut := &bytes.Buffer{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{"report", "--db", env.dbPath})

	require.NoError(t, cmd.Execute())
	assert.NotContains(t, errOut.String(), "Using database")
}
