package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/api/restapi"
)

// Client is a thin wrapper around a resty client pointed at a relaxedbase
// server
type Client struct {
	rc *resty.Client
}

// New returns a Client for the server at baseURL, e.g. http://localhost:8080
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// HTTPClient returns the underlying *http.Client
func (c *Client) HTTPClient() *http.Client {
	return c.rc.GetClient()
}

// SetBasicAuth makes all further requests use HTTP Basic authentication
func (c *Client) SetBasicAuth(login, password string) *Client {
	c.rc.SetBasicAuth(login, password)
	return c
}

// SetToken makes all further requests send the token as Bearer token
func (c *Client) SetToken(token string) *Client {
	c.rc.SetAuthToken(token)
	return c
}

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type tokenResponse struct {
	IDToken string `json:"id_token"`
}

// Authenticate obtains a token from /api/authenticate and uses it for all
// further requests
func (c *Client) Authenticate(ctx context.Context, login, password string, rememberMe bool) (string, error) {
	var token tokenResponse
	resp, err := c.rc.R().
		SetContext(ctx).
		SetBody(
			loginRequest{
				Username:   login,
				Password:   password,
				RememberMe: rememberMe,
			},
		).
		SetResult(&token).
		SetError(&restapi.Problem{}).
		Post("/api/authenticate")
	if err != nil {
		return "", errors.Wrap(err, "authentication request failed")
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	c.SetToken(token.IDToken)
	return token.IDToken, nil
}

// APIError is returned for responses with a status of 400 or above. Problem
// is nil if the server did not send a problem body.
type APIError struct {
	Status  int
	Problem *restapi.Problem
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Problem == nil || e.Problem.Title == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	if e.Problem.ErrorKey != "" {
		return fmt.Sprintf("%s (%d, error.%s)", e.Problem.Title, e.Status, e.Problem.ErrorKey)
	}
	return fmt.Sprintf("%s (%d)", e.Problem.Title, e.Status)
}

// IsNotFound reports whether err is an APIError with status 404
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

func apiError(resp *resty.Response) error {
	e := &APIError{Status: resp.StatusCode()}
	if p, ok := resp.Error().(*restapi.Problem); ok && p != nil && p.Status != 0 {
		e.Problem = p
	}
	return e
}
