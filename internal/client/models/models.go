// Package models defines the client-side domain types: the authenticated
// identity, projects, and conversation messages. These types carry no JSON
// tags; wire mapping belongs to the transport layer.
package models

import "time"

// Identity is the claim set derived from the bearer token.
type Identity struct {
	ID       string
	Username string
	Email    string
}

// Project pairs one uploaded PDF with its conversation history.
// Instances are immutable once fetched; the registry replaces rather than
// mutates them.
type Project struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DocumentRef string
}

// Author identifies the writer of a message.
type Author string

const (
	AuthorUser   Author = "USER"
	AuthorSystem Author = "SYSTEM"
)

// Source points at a supporting document fragment returned with an answer.
type Source struct {
	DocumentRef    string
	RelevanceScore float64
}

// Message is one turn in a conversation thread.
type Message struct {
	ID        string
	Author    Author
	Body      string
	CreatedAt time.Time
	Sources   []Source
}

// QueryResult is the answer to one user query: the echoed query text, the
// generated response, and the document fragments it was grounded on.
type QueryResult struct {
	Query    string
	Response string
	Matches  []Source
}
