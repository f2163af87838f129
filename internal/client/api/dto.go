package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/dbelyaev/askpdf/internal/client/models"
)

// Wire DTOs. The backend is loose about field naming and timestamp formats,
// so all normalization to the core models happens here.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type projectDTO struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	PDFURL      string      `json:"pdf_url"`
	CreatedAt   apiTime     `json:"created_at"`
	UpdatedAt   apiTime     `json:"updated_at"`
}

func (p projectDTO) toModel() models.Project {
	return models.Project{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		DocumentRef: p.PDFURL,
		CreatedAt:   p.CreatedAt.Time,
		UpdatedAt:   p.UpdatedAt.Time,
	}
}

type messageDTO struct {
	ID         json.Number `json:"id"`
	Message    string      `json:"message"`
	SenderType string      `json:"sender_type"`
	CreatedAt  apiTime     `json:"created_at"`
	Sources    []matchDTO  `json:"sources"`
}

func (m messageDTO) toModel() models.Message {
	author := models.AuthorSystem
	if strings.EqualFold(m.SenderType, string(models.AuthorUser)) {
		author = models.AuthorUser
	}
	return models.Message{
		ID:        m.ID.String(),
		Author:    author,
		Body:      m.Message,
		CreatedAt: m.CreatedAt.Time,
		Sources:   matchesToSources(m.Sources),
	}
}

type matchDTO struct {
	Document string         `json:"document"`
	Metadata map[string]any `json:"metadata"`
	Score    float64        `json:"score"`
}

type queryResponse struct {
	Query       string     `json:"query"`
	LLMResponse string     `json:"llm_response"`
	Matches     []matchDTO `json:"matches"`
}

func matchesToSources(matches []matchDTO) []models.Source {
	if len(matches) == 0 {
		return nil
	}
	sources := make([]models.Source, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, models.Source{
			DocumentRef:    m.Document,
			RelevanceScore: m.Score,
		})
	}
	return sources
}

// apiTime accepts the timestamp shapes the backend emits: RFC 3339 with or
// without a zone offset. Null and empty values decode to the zero time.
type apiTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timeLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}
