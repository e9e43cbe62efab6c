package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vinfast/dashboard/internal/metrics"
	"vinfast/dashboard/internal/model"

	"github.com/andybalholm/brotli"
	"github.com/rs/zerolog"
)

type Config struct {
	URL     string
	Timeout time.Duration
}

// Client talks to the users, catalog and orders services through the gateway.
type Client struct {
	client  *http.Client
	baseURL string
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		client: &http.Client{
			Transport: &JSONTransport{Base: http.DefaultTransport},
			Timeout:   timeout,
		},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		log:     log,
	}
}

// BaseURL is the gateway origin the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// JSONTransport asks for JSON and brotli-compressed bodies.
// It does not attach credentials.
type JSONTransport struct {
	Base http.RoundTripper
}

func (t *JSONTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

// FetchUserName resolves a user's display name. It never fails: every
// error path degrades to a displayable string.
func (c *Client) FetchUserName(ctx context.Context, userID int) string {
	var user model.User
	err := c.getJSON(ctx, ServiceUsers, fmt.Sprintf("/users/users/%d", userID), &user)
	switch {
	case err == nil:
		if user.Name == "" {
			return fmt.Sprintf("User ID %d", userID)
		}
		return user.Name
	case isStatusError(err):
		return fmt.Sprintf("User ID %d (Lỗi truy cập T1)", userID)
	default:
		return "Lỗi Kết nối T1"
	}
}

// FetchCarModelName resolves a car model's display name with the same
// contract as FetchUserName.
func (c *Client) FetchCarModelName(ctx context.Context, carID int) string {
	var car model.CarModel
	err := c.getJSON(ctx, ServiceCatalog, fmt.Sprintf("/catalog/catalog/cars/%d", carID), &car)
	switch {
	case err == nil:
		if car.ModelName == "" {
			return fmt.Sprintf("Car ID %d", carID)
		}
		return car.ModelName
	case isStatusError(err):
		return fmt.Sprintf("Car ID %d (Lỗi truy cập T2)", carID)
	default:
		return "Lỗi Kết nối T2"
	}
}

// ListOrders returns every order known to the orders service.
// Errors are *StatusError, ErrInvalidBody or a transport error.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.getJSON(ctx, ServiceOrders, "/orders/orders", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Login exchanges credentials for a bearer token at the users service.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var out loginResponse
	if err := c.do(ctx, ServiceUsers, http.MethodPost, "/users/users/login", bytes.NewReader(body), &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		metrics.ObserveUpstream(ServiceUsers, metrics.OutcomeDecode)
		return "", fmt.Errorf("login response without token: %w", ErrInvalidBody)
	}
	return out.Token, nil
}

func (c *Client) getJSON(ctx context.Context, service, path string, out any) error {
	return c.do(ctx, service, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, service, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveUpstream(service, metrics.OutcomeTransport)
		c.log.Debug().Err(err).Str("service", service).Str("path", path).Msg("gateway request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveUpstream(service, metrics.OutcomeHTTPError)
		statusErr := &StatusError{Service: service, StatusCode: resp.StatusCode}
		var msg messageResponse
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			statusErr.Message = msg.Message
			if statusErr.Message == "" {
				statusErr.Message = msg.Error
			}
		}
		c.log.Debug().Str("service", service).Str("path", path).Int("status", resp.StatusCode).Msg("gateway returned error status")
		return statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ObserveUpstream(service, metrics.OutcomeDecode)
		c.log.Warn().Err(err).Str("service", service).Str("path", path).Msg("undecodable gateway response")
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrInvalidBody, err)
	}

	metrics.ObserveUpstream(service, metrics.OutcomeOK)
	return nil
}

func isStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
