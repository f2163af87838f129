package api

import (
	"context"
	"io"

	"github.com/dbelyaev/askpdf/internal/client/models"
)

// TokenSource supplies the bearer token attached to outbound requests.
// An empty string means no session is established and the request goes out
// unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a plain function to the TokenSource interface.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// Client is the narrow request/response contract the client core consumes
// from the backend. The backend owns document ingestion, retrieval and
// answering; this interface only moves data.
//
// All methods honor context cancellation. Authorization failures are
// reported as common.ErrUnauthorized after the unauthorized hook has fired.
type Client interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Signup creates an account and returns a bearer token.
	Signup(ctx context.Context, username, password string) (string, error)

	// ListProjects fetches all projects owned by the current session.
	ListProjects(ctx context.Context) ([]models.Project, error)

	// CreateProject uploads a PDF and returns the created project.
	CreateProject(ctx context.Context, title, description, filename string, pdf io.Reader) (*models.Project, error)

	// DeleteProject removes a project and its document remotely.
	DeleteProject(ctx context.Context, projectID string) error

	// ChatHistory fetches the ordered message list for a project.
	ChatHistory(ctx context.Context, projectID string) ([]models.Message, error)

	// Query sends one user question and returns the generated answer with
	// its supporting sources.
	Query(ctx context.Context, projectID, query string, topK int) (*models.QueryResult, error)
}
