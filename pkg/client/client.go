package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/smmtool/smm/internal/logging"
	"github.com/smmtool/smm/pkg/domain"
)

// ErrNoCredential is returned before any I/O when no session credential is present.
var ErrNoCredential = errors.New("not signed in")

// Credentials supplies the bearer credential for each request.
type Credentials interface {
	Get() (string, bool)
}

// Endpoints are the base URLs of the three backend services.
type Endpoints struct {
	Identity string
	Account  string
	Post     string
	Timeout  time.Duration
}

// Client talks to the identity, account and post services.
type Client struct {
	endpoints  Endpoints
	creds      Credentials
	httpClient *http.Client
	log        *logrus.Entry
}

// New creates a new API client. A zero Timeout means 30 seconds.
func New(ep Endpoints, creds Credentials, logger *logrus.Logger) *Client {
	timeout := ep.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoints: Endpoints{
			Identity: strings.TrimRight(ep.Identity, "/"),
			Account:  strings.TrimRight(ep.Account, "/"),
			Post:     strings.TrimRight(ep.Post, "/"),
			Timeout:  timeout,
		},
		creds: creds,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logging.Component(logger, "client"),
	}
}

// LoginURL is where the browser is sent to start an OAuth login. It is
// navigated to, never fetched.
func (c *Client) LoginURL(p domain.Provider) string {
	return c.endpoints.Identity + "/oauth/" + url.PathEscape(string(p)) + "/login"
}

// ListAccounts returns the connected social accounts.
func (c *Client) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	var accounts []domain.Account
	if err := c.get(ctx, c.endpoints.Account+"/api/accounts", &accounts); err != nil {
		return nil, fmt.Errorf("client.ListAccounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// ListPosts returns the scheduled posts.
func (c *Client) ListPosts(ctx context.Context) ([]domain.Post, error) {
	var posts []domain.Post
	if err := c.get(ctx, c.endpoints.Post+"/api/posts", &posts); err != nil {
		return nil, fmt.Errorf("client.ListPosts: %w", err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

// GetAnalytics returns the engagement series.
func (c *Client) GetAnalytics(ctx context.Context) (domain.AnalyticsSeries, error) {
	var series domain.AnalyticsSeries
	if err := c.get(ctx, c.endpoints.Post+"/api/analytics", &series); err != nil {
		return nil, fmt.Errorf("client.GetAnalytics: %w", err)
	}
	if series == nil {
		series = domain.AnalyticsSeries{}
	}
	return series, nil
}

// CreatePost schedules a new post.
func (c *Client) CreatePost(ctx context.Context, req domain.CreatePostRequest) (*domain.Post, error) {
	var created domain.Post
	if err := c.post(ctx, c.endpoints.Post+"/api/posts", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreatePost: %w", err)
	}
	return &created, nil
}

func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	return c.doRequest(ctx, http.MethodGet, rawURL, nil, out)
}

func (c *Client) post(ctx context.Context, rawURL string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, rawURL, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, rawURL string, body any, out any) error {
	token, ok := "", false
	if c.creds != nil {
		token, ok = c.creds.Get()
	}
	if !ok {
		return ErrNoCredential
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	log := c.log.WithFields(logrus.Fields{"method": method, "url": rawURL, "request_id": reqID})
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed_ms": time.Since(start).Milliseconds()})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("non-success response")
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}
	log.Debug("request ok")

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
