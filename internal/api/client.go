// Package api is the HTTP repository over the PMInsight backend REST
// contract. The server is the sole source of truth; everything the client
// renders comes through here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/pminsight/client/internal/models"
	"github.com/pminsight/client/internal/session"
)

// Client issues authenticated requests against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
	// refreshing coalesces concurrent 401s into a single
	// POST /token/refresh/ call.
	refreshing singleflight.Group
}

// New constructs a client for baseURL using the given session as the only
// reader/writer of credentials.
func New(baseURL string, sess *session.Session, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
	}
}

type loginResponse struct {
	Access  string           `json:"access"`
	Refresh string           `json:"refresh"`
	User    models.Principal `json:"user"`
}

// Login authenticates and installs the resulting credentials in the
// session.
func (c *Client) Login(ctx context.Context, username, password string) (*models.Principal, error) {
	body := map[string]string{"username": username, "password": password}
	var resp loginResponse
	if err := c.doUnauthenticated(ctx, http.MethodPost, "/login/", body, &resp); err != nil {
		return nil, err
	}
	c.session.SetCredentials(resp.Access, resp.Refresh, resp.User)
	log.Printf("[API] Login successful for user %s", resp.User.Username)
	p := resp.User
	return &p, nil
}

// Logout clears the session. The backend keeps no server-side session for
// this client beyond token validity.
func (c *Client) Logout() {
	c.session.Clear()
	log.Printf("[API] Session cleared")
}

// refresh performs the single-flight token refresh. All concurrent 401s
// share one round trip; each caller retries its request afterwards.
func (c *Client) refresh(ctx context.Context) error {
	_, err, _ := c.refreshing.Do("refresh", func() (any, error) {
		refreshToken := c.session.RefreshToken()
		if refreshToken == "" {
			return nil, ErrSessionExpired
		}
		var resp struct {
			Access string `json:"access"`
		}
		body := map[string]string{"refresh": refreshToken}
		if err := c.doUnauthenticated(ctx, http.MethodPost, "/token/refresh/", body, &resp); err != nil {
			return nil, err
		}
		c.session.SetAccessToken(resp.Access)
		log.Printf("[API] Access token refreshed")
		return nil, nil
	})
	if err != nil {
		log.Printf("[API] Token refresh failed: %v", err)
		c.session.Clear()
		return ErrSessionExpired
	}
	return nil
}

// do issues an authenticated JSON request, transparently refreshing the
// access token once on 401.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	err := c.send(ctx, method, path, query, body, out, true)
	var apiErr *Error
	if asAPIError(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return c.send(ctx, method, path, query, body, out, true)
	}
	return err
}

func (c *Client) doUnauthenticated(ctx context.Context, method, path string, body, out any) error {
	return c.send(ctx, method, path, nil, body, out, false)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any, withAuth bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		// Tags the mutation for server-side request tracing.
		req.Header.Set("X-Correlation-Id", uuid.NewString())
	}
	if withAuth {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// download streams a binary response (xlsx/pdf report blobs) to w,
// applying the same 401-refresh-retry protocol as do.
func (c *Client) download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	err := c.downloadOnce(ctx, path, query, w)
	var apiErr *Error
	if asAPIError(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			return refreshErr
		}
		return c.downloadOnce(ctx, path, query, w)
	}
	return err
}

func (c *Client) downloadOnce(ctx context.Context, path string, query url.Values, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && json.Unmarshal(data, &payload) == nil {
		switch {
		case payload.Error != "":
			apiErr.Message = payload.Error
		case payload.Detail != "":
			apiErr.Message = payload.Detail
		}
	}
	return apiErr
}

func asAPIError(err error, target **Error) bool {
	if err == nil {
		return false
	}
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}
