package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubExec records which commands the REPL dispatched.
type stubExec struct {
	loggedIn bool
	calls    []string
	failOn   string
}

func (s *stubExec) record(name string) error {
	s.calls = append(s.calls, name)
	if name == s.failOn {
		return fmt.Errorf("%s blew up", name)
	}
	return nil
}

func (s *stubExec) isLoggedIn() bool { return s.loggedIn }

func (s *stubExec) Register(ctx context.Context) error { return s.record("register") }
func (s *stubExec) Login(ctx context.Context) error    { return s.record("login") }
func (s *stubExec) Logout(ctx context.Context) error   { return s.record("logout") }
func (s *stubExec) Whoami(ctx context.Context) error   { return s.record("whoami") }
func (s *stubExec) Projects(ctx context.Context) error { return s.record("projects") }

func (s *stubExec) Open(ctx context.Context, arg string) error {
	return s.record("open " + arg)
}

func (s *stubExec) CloseProject(ctx context.Context) error { return s.record("close") }
func (s *stubExec) NewProject(ctx context.Context) error   { return s.record("new") }

func (s *stubExec) Delete(ctx context.Context, arg string) error {
	return s.record("delete " + arg)
}

func (s *stubExec) Ask(ctx context.Context, text string) error {
	return s.record("ask " + text)
}

func (s *stubExec) History(ctx context.Context) error { return s.record("history") }

func (s *stubExec) Export(ctx context.Context, path string) error {
	return s.record("export " + path)
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	old := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, fmt.Sprintln(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = old })
	return &lines
}

func runScript(t *testing.T, exec *stubExec, script string) string {
	t.Helper()
	lines := captureOutput(t)
	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), exec, func() string { return "(test)" }, scanner)
	return strings.Join(*lines, "")
}

func TestREPL_DispatchesCommands(t *testing.T) {
	exec := &stubExec{loggedIn: true}

	runScript(t, exec, strings.Join([]string{
		"projects",
		"open 2",
		"ask what is chapter one about",
		"history",
		"export out.txt",
		"close",
		"delete 2",
		"logout",
		"exit",
	}, "\n"))

	assert.Equal(t, []string{
		"projects",
		"open 2",
		"ask what is chapter one about",
		"history",
		"export out.txt",
		"close",
		"delete 2",
		"logout",
	}, exec.calls)
}

func TestREPL_UsageHintsWithoutArgs(t *testing.T) {
	exec := &stubExec{loggedIn: true}

	out := runScript(t, exec, "open\ndelete\nask\nexit")

	assert.Empty(t, exec.calls, "commands missing required args must not dispatch")
	assert.Contains(t, out, "Usage: open <id|#>")
	assert.Contains(t, out, "Usage: delete <id|#>")
	assert.Contains(t, out, "Usage: ask <question>")
}

func TestREPL_HelpDependsOnLoginState(t *testing.T) {
	out := runScript(t, &stubExec{loggedIn: false}, "help\nexit")
	assert.Contains(t, out, "register, login, exit")

	out = runScript(t, &stubExec{loggedIn: true}, "help\nexit")
	assert.Contains(t, out, "ask <text>")
}

func TestREPL_PrintsHandlerErrorsAndContinues(t *testing.T) {
	exec := &stubExec{loggedIn: true, failOn: "projects"}

	out := runScript(t, exec, "projects\nwhoami\nexit")

	assert.Contains(t, out, "Error: projects blew up")
	assert.Contains(t, exec.calls, "whoami", "loop survives a failing handler")
}

func TestREPL_UnknownCommand(t *testing.T) {
	out := runScript(t, &stubExec{}, "frobnicate\nexit")
	assert.Contains(t, out, "Unknown command: frobnicate")
}

func TestREPL_EmptyLinesAndEOF(t *testing.T) {
	exec := &stubExec{}
	runScript(t, exec, "\n\n   \n")
	assert.Empty(t, exec.calls)
}
