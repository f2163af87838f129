// Package conversation drives the chat flow for the selected project:
// loading history, the optimistic send protocol, and transcript export.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dbelyaev/askpdf/internal/client/api"
	"github.com/dbelyaev/askpdf/internal/client/models"
	"github.com/dbelyaev/askpdf/internal/common"
	"github.com/dbelyaev/askpdf/internal/logging"
)

// DefaultTopK is the number of document fragments requested per query.
const DefaultTopK = 4

// sendState is the per-thread send machine: Idle → Sending → Idle. Keeping
// it as a tagged state (rather than a bool) is what makes the single-flight
// rule checkable in one place.
type sendState int

const (
	stateIdle sendState = iota
	stateSending
)

type thread struct {
	messages []models.Message
	state    sendState
}

// Controller owns one in-memory thread per project. Threads are append-only
// and chronological: the controller is the sole writer while a project is
// current, so optimistic USER entries and confirmed SYSTEM entries never
// need reconciliation.
//
// Sends on the same thread are single-flight: a second Send while one is
// outstanding is rejected, not queued. Sends on different projects proceed
// independently; the network round trip runs outside the controller lock.
type Controller struct {
	mu      sync.Mutex
	client  api.Client
	log     logging.Logger
	threads map[string]*thread
	topK    int

	// test seams
	now   func() time.Time
	newID func() string
}

// Option customizes a Controller.
type Option func(*Controller)

// WithTopK overrides the number of fragments requested per query.
func WithTopK(k int) Option {
	return func(c *Controller) {
		if k > 0 {
			c.topK = k
		}
	}
}

func NewController(client api.Client, log logging.Logger, opts ...Option) *Controller {
	c := &Controller{
		client:  client,
		log:     log.With("component", "conversation"),
		threads: make(map[string]*thread),
		topK:    DefaultTopK,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadHistory fetches the full ordered message list for a project and
// replaces any in-memory thread for it. On failure the thread is left
// empty and the error is surfaced; the user can retry by reselecting.
func (c *Controller) LoadHistory(ctx context.Context, projectID string) ([]models.Message, error) {
	messages, err := c.client.ChatHistory(ctx, projectID)

	c.mu.Lock()
	defer c.mu.Unlock()

	th := c.ensureLocked(projectID)
	if err != nil {
		th.messages = nil
		return nil, fmt.Errorf("loading history for project %s: %w", projectID, err)
	}

	th.messages = messages
	c.log.Debug(ctx, "history loaded", "project", projectID, "messages", len(messages))
	return append([]models.Message(nil), messages...), nil
}

// Send executes the optimistic send protocol:
//
//  1. Blank text and a send already in flight for this thread are rejected
//     with no state change.
//  2. A USER message with a locally generated timestamp is appended before
//     any network traffic, and the thread is marked awaiting.
//  3. On success the SYSTEM answer is appended right after the USER turn
//     that triggered it, carrying the response's sources.
//  4. On failure the USER message stays (the user did send it) and the
//     error is surfaced; resending may produce a duplicate USER entry,
//     which is accepted.
//  5. Awaiting clears on every path.
func (c *Controller) Send(ctx context.Context, projectID, text string) error {
	if strings.TrimSpace(text) == "" {
		return common.ErrEmptyMessage
	}

	c.mu.Lock()
	th := c.ensureLocked(projectID)
	if th.state == stateSending {
		c.mu.Unlock()
		return common.ErrSendInFlight
	}

	th.messages = append(th.messages, models.Message{
		ID:        c.newID(),
		Author:    models.AuthorUser,
		Body:      text,
		CreatedAt: c.now(),
	})
	th.state = stateSending
	c.mu.Unlock()

	result, err := c.client.Query(ctx, projectID, text, c.topK)

	c.mu.Lock()
	defer c.mu.Unlock()

	// The thread may have been released while the request was in flight.
	// A late answer must not land in a stale or reused slot; history is
	// safe on the server.
	if current, ok := c.threads[projectID]; !ok || current != th {
		c.log.Debug(ctx, "discarding late response", "project", projectID)
		if err != nil {
			return fmt.Errorf("sending message to project %s: %w", projectID, err)
		}
		return nil
	}

	th.state = stateIdle

	if err != nil {
		return fmt.Errorf("sending message to project %s: %w", projectID, err)
	}

	th.messages = append(th.messages, models.Message{
		ID:        c.newID(),
		Author:    models.AuthorSystem,
		Body:      result.Response,
		CreatedAt: c.now(),
		Sources:   result.Matches,
	})
	return nil
}

// Export renders the in-memory thread as a flat transcript, one
// "AUTHOR: body" line per turn. Read-only, no network.
func (c *Controller) Export(projectID string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[projectID]
	if !ok {
		return "", common.ErrNoSuchThread
	}

	var b strings.Builder
	for _, msg := range th.messages {
		fmt.Fprintf(&b, "%s: %s\n", msg.Author, msg.Body)
	}
	return b.String(), nil
}

// Messages returns a copy of the thread's message sequence.
func (c *Controller) Messages(projectID string) []models.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[projectID]
	if !ok {
		return nil
	}
	return append([]models.Message(nil), th.messages...)
}

// Awaiting reports whether a send is outstanding for the project.
func (c *Controller) Awaiting(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	th, ok := c.threads[projectID]
	return ok && th.state == stateSending
}

// Release drops the in-memory thread when the user navigates away. An
// in-flight send is not aborted, but its response will be discarded.
// Durable history stays with the backend and is re-fetched on reselection.
func (c *Controller) Release(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.threads, projectID)
}

// ReleaseAll drops every thread, e.g. on logout.
func (c *Controller) ReleaseAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.threads = make(map[string]*thread)
}

func (c *Controller) ensureLocked(projectID string) *thread {
	th, ok := c.threads[projectID]
	if !ok {
		th = &thread{}
		c.threads[projectID] = th
	}
	return th
}
