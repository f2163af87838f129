package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dbelyaev/askpdf/internal/client/models"
)

// Projects refreshes the registry from the server and lists the result.
// The printed ordinal can be used with open/delete instead of the id.
func (a *App) Projects(ctx context.Context) error {
	if err := a.registry.Refresh(ctx); err != nil {
		return err
	}

	projects := a.registry.Projects()
	if len(projects) == 0 {
		fmt.Fprintln(a.out, "No projects yet. Use 'new' to upload a PDF.")
		return nil
	}

	for i, p := range projects {
		marker := " "
		if p.ID == a.registry.CurrentID() {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %2d. [%s] %s (created %s)\n",
			marker, i+1, p.ID, p.Title, p.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

// Open selects a project by id or list ordinal and loads its conversation
// history. Opening a different project releases the previous thread; its
// history stays on the server.
func (a *App) Open(ctx context.Context, arg string) error {
	project, err := a.resolveProject(arg)
	if err != nil {
		return err
	}

	if prev := a.registry.CurrentID(); prev != "" && prev != project.ID {
		a.conversation.Release(prev)
	}
	a.registry.Select(ctx, project.ID)

	messages, err := a.conversation.LoadHistory(ctx, project.ID)
	if err != nil {
		// The project stays open; the user can retry by reopening.
		return err
	}

	fmt.Fprintf(a.out, "Opened %q (%d earlier messages).\n", project.Title, len(messages))
	a.printMessages(messages)
	return nil
}

// CloseProject deselects the current project and drops its thread.
func (a *App) CloseProject(ctx context.Context) error {
	id := a.registry.CurrentID()
	if id == "" {
		return nil
	}
	a.conversation.Release(id)
	a.registry.Select(ctx, "")
	fmt.Fprintln(a.out, "Project closed.")
	return nil
}

// NewProject prompts for a title, description and a local PDF path, uploads
// the document and opens the created project. The backend may seed the
// conversation with a generated summary, so history is loaded right away.
func (a *App) NewProject(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Project title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	path, err := getSimpleText(a.reader, "Path to PDF file", a.out)
	if err != nil {
		return err
	}

	if err := validateNewProject(title, path); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	project, err := a.registry.Create(ctx, title, description, filepath.Base(path), f)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Project %q created.\n", project.Title)

	messages, err := a.conversation.LoadHistory(ctx, project.ID)
	if err != nil {
		return err
	}
	a.printMessages(messages)
	return nil
}

// Delete removes a project by id or list ordinal after confirmation. The
// local list only changes when the server confirmed the delete.
func (a *App) Delete(ctx context.Context, arg string) error {
	project, err := a.resolveProject(arg)
	if err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader,
		fmt.Sprintf("Delete %q and its conversation? (y/N)", project.Title), a.out)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "Y" {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	wasCurrent := a.registry.CurrentID() == project.ID
	if err := a.registry.Remove(ctx, project.ID); err != nil {
		return err
	}
	if wasCurrent {
		a.conversation.Release(project.ID)
	}

	fmt.Fprintf(a.out, "Project %q deleted.\n", project.Title)
	return nil
}

// resolveProject finds a project by exact id, or by 1-based ordinal from
// the last listing.
func (a *App) resolveProject(arg string) (models.Project, error) {
	projects := a.registry.Projects()

	for _, p := range projects {
		if p.ID == arg {
			return p, nil
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(projects) {
		return projects[n-1], nil
	}
	return models.Project{}, fmt.Errorf("no such project: %s", arg)
}
