// Package client is a typed Go caller for the home services exchange API.
// It keeps the session cookie in a jar so protected endpoints work the same
// way a browser session does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/google/go-querystring/query"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
	}, nil
}

// Service mirrors the wire shape of a listing.
type Service struct {
	ID                   string `json:"_id,omitempty"`
	ServiceName          string `json:"service_name"`
	ServiceArea          string `json:"service_area"`
	ServiceDescription   string `json:"service_description"`
	ServicePrice         string `json:"service_price"`
	ServiceImage         string `json:"service_image"`
	ServiceProviderName  string `json:"service_provider_name"`
	ServiceProviderEmail string `json:"service_provider_email"`
	ServiceProviderImg   string `json:"service_provider_img"`
}

// Booking documents are free-form beyond their email keys, so the client
// hands them through untyped.
type Booking map[string]interface{}

type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type ListServicesOptions struct {
	ProviderEmail string `url:"service_provider_email,omitempty"`
}

type ListBookingsOptions struct {
	Email string `url:"email,omitempty"`
}

type ListOtherBookingsOptions struct {
	ProviderEmail string `url:"service_provider_email,omitempty"`
}

// Login asserts an identity and stores the returned session cookie in the
// jar. The claim must include an email field.
func (c *Client) Login(ctx context.Context, claim map[string]interface{}) error {
	return c.do(ctx, http.MethodPost, "/jwt", claim, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", map[string]interface{}{}, nil)
}

func (c *Client) Services(ctx context.Context) ([]Service, error) {
	var out []Service
	if err := c.do(ctx, http.MethodGet, "/services", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddedServices(ctx context.Context, opts ListServicesOptions) ([]Service, error) {
	path, err := withQuery("/added-services", opts)
	if err != nil {
		return nil, err
	}
	var out []Service
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Service returns nil without error when no listing matches the id.
func (c *Client) Service(ctx context.Context, id string) (*Service, error) {
	var out *Service
	if err := c.do(ctx, http.MethodGet, "/services/"+id, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateService(ctx context.Context, svc Service) (*InsertResult, error) {
	var out InsertResult
	if err := c.do(ctx, http.MethodPost, "/services", svc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ReplaceService(ctx context.Context, id string, svc Service) (*UpdateResult, error) {
	var out UpdateResult
	if err := c.do(ctx, http.MethodPut, "/services/"+id, svc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteService(ctx context.Context, id string) (*DeleteResult, error) {
	var out DeleteResult
	if err := c.do(ctx, http.MethodDelete, "/services/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, b Booking) (*InsertResult, error) {
	var out InsertResult
	if err := c.do(ctx, http.MethodPost, "/bookings", b, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyBookings requires a prior Login; the queried email must match the
// logged-in identity or the server answers 403.
func (c *Client) MyBookings(ctx context.Context, opts ListBookingsOptions) ([]Booking, error) {
	path, err := withQuery("/bookings", opts)
	if err != nil {
		return nil, err
	}
	var out []Booking
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) OtherBookings(ctx context.Context, opts ListOtherBookingsOptions) ([]Booking, error) {
	path, err := withQuery("/other-bookings", opts)
	if err != nil {
		return nil, err
	}
	var out []Booking
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func withQuery(path string, opts interface{}) (string, error) {
	values, err := query.Values(opts)
	if err != nil {
		return "", err
	}
	if encoded := values.Encode(); encoded != "" {
		return path + "?" + encoded, nil
	}
	return path, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Body)
}
