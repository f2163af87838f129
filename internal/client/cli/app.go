package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/dbelyaev/askpdf/internal/client/api"
	"github.com/dbelyaev/askpdf/internal/client/config"
	"github.com/dbelyaev/askpdf/internal/client/conversation"
	"github.com/dbelyaev/askpdf/internal/client/registry"
	"github.com/dbelyaev/askpdf/internal/client/session"
	"github.com/dbelyaev/askpdf/internal/logging"
)

// App is the interactive client application. It owns the three state cores
// and the terminal I/O around them.
type App struct {
	config       *config.Config
	log          logging.Logger
	session      *session.Manager
	registry     *registry.Registry
	conversation *conversation.Controller

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr, parseLevel(cfg.LogLevel))

	tokenPath := cfg.TokenFile
	if tokenPath == "" {
		p, err := session.DefaultTokenPath()
		if err != nil {
			return nil, fmt.Errorf("resolving token path: %w", err)
		}
		tokenPath = p
	}
	store := session.NewFileStore(tokenPath)

	// The transport pulls the token from the session manager on every
	// request and reports 401s back into it; both sides go through the
	// closures so neither package imports the other. A 401 is fatal to the
	// whole session, so the hook also drops registry and thread state.
	var (
		sess *session.Manager
		reg  *registry.Registry
		conv *conversation.Controller
	)
	client := api.NewRESTClient(cfg.ServerEndpointURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithTokenSource(api.TokenSourceFunc(func() string {
			if sess == nil {
				return ""
			}
			return sess.Token()
		})),
		api.WithUnauthorizedHandler(func() {
			if sess != nil {
				sess.ForceLogout()
			}
			if reg != nil {
				reg.Reset()
			}
			if conv != nil {
				conv.ReleaseAll()
			}
		}),
	)
	sess = session.NewManager(client, store, log)
	reg = registry.New(client, log)
	conv = conversation.NewController(client, log, conversation.WithTopK(cfg.TopK))

	return &App{
		config:       cfg,
		log:          log,
		session:      sess,
		registry:     reg,
		conversation: conv,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

// Run restores any persisted session and enters the REPL, blocking until
// the user exits.
func (a *App) Run(ctx context.Context) {
	a.session.Restore(ctx)
	if identity, ok := a.session.Identity(); ok {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", identity.Username)
		if err := a.registry.Refresh(ctx); err != nil {
			a.log.Warn(ctx, "cannot load projects", "error", err)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	identity, ok := a.session.Identity()
	if !ok {
		return ""
	}
	s := identity.Username
	if current, ok := a.registry.Current(); ok {
		s += " · " + current.Title
	}
	return fmt.Sprintf("(%s)", s)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
