// Package registry owns the in-memory list of the user's projects and the
// pointer to the currently selected one. The backend is the source of truth;
// the registry is replaced wholesale on refresh, never merged.
package registry

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dbelyaev/askpdf/internal/client/api"
	"github.com/dbelyaev/askpdf/internal/client/models"
	"github.com/dbelyaev/askpdf/internal/common"
	"github.com/dbelyaev/askpdf/internal/logging"
)

type Registry struct {
	mu     sync.Mutex
	client api.Client
	log    logging.Logger

	projects  []models.Project
	currentID string
}

func New(client api.Client, log logging.Logger) *Registry {
	return &Registry{
		client: client,
		log:    log.With("component", "registry"),
	}
}

// Refresh fetches the full project list and replaces the collection under
// one lock, so readers never observe a partially applied response. If two
// refreshes overlap, the later response to arrive wins whole.
func (r *Registry) Refresh(ctx context.Context) error {
	projects, err := r.client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("refreshing projects: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects = projects
	// The current project may have been deleted from another device.
	if r.currentID != "" && r.findLocked(r.currentID) == nil {
		r.log.Info(ctx, "current project disappeared from server list", "id", r.currentID)
		r.currentID = ""
	}
	return nil
}

// Select sets the current project pointer. An empty id deselects. Selecting
// an id that is not in the registry leaves the pointer unchanged; callers
// see a no-op while the mismatch is logged for diagnostics.
func (r *Registry) Select(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == "" {
		r.currentID = ""
		return
	}
	if r.findLocked(id) == nil {
		r.log.Warn(ctx, "select ignored", "id", id, "error", common.ErrUnknownProject)
		return
	}
	r.currentID = id
}

// Create uploads a new document. On success the returned project joins the
// registry and becomes current.
func (r *Registry) Create(ctx context.Context, title, description, filename string, pdf io.Reader) (*models.Project, error) {
	project, err := r.client.CreateProject(ctx, title, description, filename, pdf)
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects = append(r.projects, *project)
	r.currentID = project.ID

	r.log.Info(ctx, "project created", "id", project.ID, "title", project.Title)
	return project, nil
}

// Remove deletes the project remotely first; the local collection changes
// only once the server confirmed. A failed remote delete leaves the
// registry exactly as it was and surfaces the error.
func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.client.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.projects[:0]
	for _, p := range r.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	r.projects = kept

	if r.currentID == id {
		r.currentID = ""
	}

	r.log.Info(ctx, "project removed", "id", id)
	return nil
}

// Projects returns a copy of the collection in server order.
func (r *Registry) Projects() []models.Project {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Current returns the selected project, if any.
func (r *Registry) Current() (models.Project, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.currentID == "" {
		return models.Project{}, false
	}
	if p := r.findLocked(r.currentID); p != nil {
		return *p, true
	}
	return models.Project{}, false
}

// CurrentID returns the id of the selected project, or "".
func (r *Registry) CurrentID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentID
}

// Reset drops all local state, e.g. after a logout.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = nil
	r.currentID = ""
}

func (r *Registry) findLocked(id string) *models.Project {
	for i := range r.projects {
		if r.projects[i].ID == id {
			return &r.projects[i]
		}
	}
	return nil
}
