package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dbelyaev/askpdf/internal/client/models"
)

// Ask sends one question about the open project's document and prints the
// answer with its sources. The question appears in the history immediately;
// if the request fails it stays there and asking again simply retries.
func (a *App) Ask(ctx context.Context, text string) error {
	current, ok := a.registry.Current()
	if !ok {
		return fmt.Errorf("no project open; use 'open <id>' first")
	}

	fmt.Fprintln(a.out, "Thinking...")
	if err := a.conversation.Send(ctx, current.ID, text); err != nil {
		return err
	}

	messages := a.conversation.Messages(current.ID)
	if len(messages) == 0 {
		return nil
	}
	a.printMessage(messages[len(messages)-1])
	return nil
}

// History prints the in-memory conversation of the open project.
func (a *App) History(ctx context.Context) error {
	current, ok := a.registry.Current()
	if !ok {
		return fmt.Errorf("no project open; use 'open <id>' first")
	}

	messages := a.conversation.Messages(current.ID)
	if len(messages) == 0 {
		fmt.Fprintln(a.out, "No messages yet. Ask something about the document.")
		return nil
	}
	a.printMessages(messages)
	return nil
}

// Export writes the current conversation transcript to a file. With an
// empty path the file is named after the project, matching the
// "<title>-chat-export.txt" convention.
func (a *App) Export(ctx context.Context, path string) error {
	current, ok := a.registry.Current()
	if !ok {
		return fmt.Errorf("no project open; use 'open <id>' first")
	}

	transcript, err := a.conversation.Export(current.ID)
	if err != nil {
		return err
	}

	if path == "" {
		path = sanitizeFilename(current.Title) + "-chat-export.txt"
	}
	if err := os.WriteFile(path, []byte(transcript), 0o644); err != nil {
		return fmt.Errorf("writing transcript: %w", err)
	}

	fmt.Fprintf(a.out, "Transcript saved to %s\n", path)
	return nil
}

func (a *App) printMessages(messages []models.Message) {
	for _, msg := range messages {
		a.printMessage(msg)
	}
}

func (a *App) printMessage(msg models.Message) {
	fmt.Fprintf(a.out, "[%s] %s: %s\n",
		msg.CreatedAt.Format("15:04"), msg.Author, msg.Body)
	if len(msg.Sources) > 0 {
		refs := make([]string, 0, len(msg.Sources))
		for _, s := range msg.Sources {
			refs = append(refs, fmt.Sprintf("%.60s (%.2f)", s.DocumentRef, s.RelevanceScore))
		}
		fmt.Fprintf(a.out, "    sources: %s\n", strings.Join(refs, "; "))
	}
}

// sanitizeFilename keeps the exported filename safe across platforms.
func sanitizeFilename(s string) string {
	mapper := func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}
	out := strings.Map(mapper, strings.TrimSpace(s))
	if out == "" {
		out = "conversation"
	}
	return out
}
