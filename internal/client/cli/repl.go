package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Projects(ctx context.Context) error
	Open(ctx context.Context, arg string) error
	CloseProject(ctx context.Context) error
	NewProject(ctx context.Context) error
	Delete(ctx context.Context, arg string) error
	Ask(ctx context.Context, text string) error
	History(ctx context.Context) error
	Export(ctx context.Context, path string) error
}

// runREPL starts a simple read–eval–print loop for the askpdf CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - projects | p   — refresh and list projects
//	  - new            — upload a PDF as a new project
//	  - open <id|#>    — select a project and load its conversation
//	  - close          — deselect the current project
//	  - delete <id|#>  — delete a project
//	  - ask <text>     — send a question about the open document
//	  - history        — print the current conversation
//	  - export [path]  — save the conversation transcript to a file
//	  - whoami         — show the logged-in identity
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Errors returned by command handlers are printed and the loop continues;
// no command failure is fatal to the REPL.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("askpdf %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (p)rojects, new, open <id>, close, delete <id>, ask <text>, history, export [path], whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.Whoami(ctx)

		case "p", "projects":
			err = a.Projects(ctx)

		case "new":
			err = a.NewProject(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <id|#>")
				continue
			}
			err = a.Open(ctx, args[0])

		case "close":
			err = a.CloseProject(ctx)

		case "delete":
			if len(args) == 0 {
				printlnFn("Usage: delete <id|#>")
				continue
			}
			err = a.Delete(ctx, args[0])

		case "ask":
			if len(args) == 0 {
				printlnFn("Usage: ask <question>")
				continue
			}
			err = a.Ask(ctx, strings.Join(args, " "))

		case "history":
			err = a.History(ctx)

		case "export":
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			err = a.Export(ctx, path)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
