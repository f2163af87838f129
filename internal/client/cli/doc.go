// Package cli provides the interactive askpdf command-line client.
//
// It wires configuration, the persisted-token slot, the REST transport, and
// the three state-owning components (session manager, project registry,
// conversation controller) into an interactive REPL. Typical flow: restore
// a persisted session, list projects, open one, and converse about its PDF.
//
// Key commands:
//   - register / login / logout / whoami
//   - projects — refresh and list projects
//   - new — upload a PDF as a new project
//   - open / close / delete — manage the current project
//   - ask — send a question about the open project's document
//   - history / export — inspect and save the conversation
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
