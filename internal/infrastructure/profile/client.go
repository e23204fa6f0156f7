// Package profile implements the CredentialStore port against the profile
// service's REST API. The profile service owns all credential data; this
// client is the only path through which the identity service touches it.
package profile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campushire/identity-service/internal/api/metrics"
	"github.com/campushire/identity-service/internal/core/domain"
	"github.com/campushire/identity-service/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient builds a CredentialStore client for the profile service at
// baseURL (e.g. http://localhost:8081/api/profile). Every request is bounded
// by timeout; a default is applied when none is provided.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// createRequest mirrors the profile service's creation contract. The
// password travels in cleartext; the store hashes it on insert.
type createRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Gender      string `json:"gender"`
	Role        string `json:"role"`
}

// FetchByUsername hits the auth read (GET {base}/auth/{username}), the only
// endpoint that returns the password digest.
func (c *Client) FetchByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	endpoint := c.baseURL + "/auth/" + url.PathEscape(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &ports.StoreError{Err: err}
	}

	return c.do("fetch", req, http.StatusOK)
}

// Create registers a credential (POST {base}). Uniqueness violations come
// back as 4xx/5xx with an error body and are left raw in the StoreError for
// the core to classify.
func (c *Client) Create(ctx context.Context, reg domain.Registration) (*domain.Credential, error) {
	payload, err := json.Marshal(createRequest{
		Username:    reg.Username,
		Password:    reg.Password,
		Email:       reg.Email,
		FirstName:   reg.FirstName,
		LastName:    reg.LastName,
		PhoneNumber: reg.PhoneNumber,
		Gender:      reg.Gender,
		Role:        reg.Role,
	})
	if err != nil {
		return nil, &ports.StoreError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &ports.StoreError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do("create", req, http.StatusCreated)
}

// do executes the request and maps the outcome: a transport failure yields
// StoreError{Status: 0}, a non-success status yields StoreError with the
// raw body, and an undecodable success body yields ErrBadStoreResponse.
func (c *Client) do(operation string, req *http.Request, wantStatus int) (*domain.Credential, error) {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.StoreRequestDuration.WithLabelValues(operation, "transport_error").Observe(time.Since(start).Seconds())
		c.log.Warn().Err(err).Str("operation", operation).Msg("credential store unreachable")
		return nil, &ports.StoreError{Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	metrics.StoreRequestDuration.WithLabelValues(operation, outcomeLabel(resp.StatusCode)).Observe(time.Since(start).Seconds())
	if readErr != nil {
		return nil, &ports.StoreError{Status: resp.StatusCode, Err: readErr}
	}

	if resp.StatusCode != wantStatus {
		// 200 on a create (or 201 on a fetch) would still carry a usable
		// credential; only treat non-2xx as failure.
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &ports.StoreError{Status: resp.StatusCode, Body: string(body)}
		}
	}

	var cred domain.Credential
	if err := json.Unmarshal(body, &cred); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrBadStoreResponse, operation, req.URL.Path, err)
	}
	return &cred, nil
}

// Ping reports whether the profile service is reachable at all. Any HTTP
// response counts as reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func outcomeLabel(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return "ok"
	}
}
