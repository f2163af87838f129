package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dbelyaev/askpdf/internal/client/models"
	"github.com/dbelyaev/askpdf/internal/common"
)

// RESTClient implements Client over the backend's HTTP/JSON API.
//
// Every request carries "Authorization: Bearer <token>" when the token
// source yields a non-empty token. Any 401 response triggers the
// unauthorized hook exactly once per request before the error is returned,
// so the session layer can collapse to the logged-out state no matter which
// component issued the call.
type RESTClient struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

// Option customizes a RESTClient.
type Option func(*RESTClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *RESTClient) { c.httpClient = hc }
}

// WithTokenSource sets the supplier of the bearer token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *RESTClient) { c.tokens = ts }
}

// WithUnauthorizedHandler sets the hook invoked on any 401 response.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *RESTClient) { c.onUnauthorized = fn }
}

func NewRESTClient(baseURL string, opts ...Option) *RESTClient {
	c := &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *RESTClient) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/login",
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &resp)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return "", common.ErrInvalidCredentials
		}
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *RESTClient) Signup(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	err = c.do(ctx, http.MethodPost, "/signup",
		"application/json", bytes.NewReader(body), &resp)
	if err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *RESTClient) ListProjects(ctx context.Context) ([]models.Project, error) {
	var dtos []projectDTO
	if err := c.do(ctx, http.MethodGet, "/projects", "", nil, &dtos); err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(dtos))
	for _, dto := range dtos {
		projects = append(projects, dto.toModel())
	}
	return projects, nil
}

func (c *RESTClient) CreateProject(ctx context.Context, title, description, filename string, pdf io.Reader) (*models.Project, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("title", title); err != nil {
		return nil, err
	}
	if err := mw.WriteField("description", description); err != nil {
		return nil, err
	}
	fw, err := mw.CreateFormFile("pdf_file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, pdf); err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var dto projectDTO
	if err := c.do(ctx, http.MethodPost, "/createProject", mw.FormDataContentType(), &buf, &dto); err != nil {
		return nil, err
	}
	project := dto.toModel()
	return &project, nil
}

func (c *RESTClient) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(projectID), "", nil, nil)
}

func (c *RESTClient) ChatHistory(ctx context.Context, projectID string) ([]models.Message, error) {
	var dtos []messageDTO
	if err := c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(projectID), "", nil, &dtos); err != nil {
		return nil, err
	}

	messages := make([]models.Message, 0, len(dtos))
	for _, dto := range dtos {
		messages = append(messages, dto.toModel())
	}
	return messages, nil
}

func (c *RESTClient) Query(ctx context.Context, projectID, query string, topK int) (*models.QueryResult, error) {
	body, err := json.Marshal(map[string]any{
		"query": query,
		"top_k": topK,
	})
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	err = c.do(ctx, http.MethodPost, "/query/"+url.PathEscape(projectID),
		"application/json", bytes.NewReader(body), &resp)
	if err != nil {
		return nil, err
	}

	return &models.QueryResult{
		Query:    resp.Query,
		Response: resp.LLMResponse,
		Matches:  matchesToSources(resp.Matches),
	}, nil
}

// do executes one request and decodes a 2xx JSON body into out (out may be
// nil for status-only endpoints).
func (c *RESTClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return common.ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *RESTClient) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Detail != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, er.Detail)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}

func (c *RESTClient) mapTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s", common.ErrUnavailable, "request timed out")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, urlErr.Err)
	}
	return err
}
