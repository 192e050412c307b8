package recordstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
)

const _defaultTimeout = 30 * time.Second

// StatusError is a non-2xx answer of the record store.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("record store answered %d: %s", e.StatusCode, e.Message)
}

// Client talks to the record store REST API. Every request is bounded by the
// client timeout; a request that does not finish in time is a failure.
type Client struct {
	baseURL string
	timeout time.Duration

	http *http.Client
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: _defaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	return c
}

// Deliver creates the record, or replaces record RecordID when it is set.
func (c *Client) Deliver(ctx context.Context, sub entity.QueuedSubmission) (*entity.Observation, error) {
	body := dto.SeedRequest{Observation: sub.Observation, Images: sub.Images}
	if body.Images == nil {
		body.Images = []string{}
	}

	var (
		o   entity.Observation
		err error
	)

	if sub.RecordID == nil {
		err = c.call(ctx, http.MethodPost, "/v1/seeds", body, &o)
	} else {
		err = c.call(ctx, http.MethodPut, "/v1/seeds/"+strconv.FormatInt(*sub.RecordID, 10), body, &o)
	}
	if err != nil {
		return nil, fmt.Errorf("Client - Deliver - c.call: %w", err)
	}

	return &o, nil
}

func (c *Client) List(ctx context.Context, filter dto.Filter) ([]*entity.Observation, error) {
	var observations []*entity.Observation

	err := c.call(ctx, http.MethodGet, "/v1/seeds"+query(filter), nil, &observations)
	if err != nil {
		return nil, fmt.Errorf("Client - List - c.call: %w", err)
	}

	return observations, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*entity.Observation, error) {
	var o entity.Observation

	err := c.call(ctx, http.MethodGet, "/v1/seeds/"+strconv.FormatInt(id, 10), nil, &o)
	if err != nil {
		return nil, fmt.Errorf("Client - Get - c.call: %w", err)
	}

	return &o, nil
}

func (c *Client) Delete(ctx context.Context, id int64) (*entity.Observation, error) {
	var o entity.Observation

	err := c.call(ctx, http.MethodDelete, "/v1/seeds/"+strconv.FormatInt(id, 10), nil, &o)
	if err != nil {
		return nil, fmt.Errorf("Client - Delete - c.call: %w", err)
	}

	return &o, nil
}

// Pictures returns the base64 pictures of a record.
func (c *Client) Pictures(ctx context.Context, seedDataID int64) ([]string, error) {
	var resp dto.Pictures

	err := c.call(ctx, http.MethodGet, "/v1/pictures/"+strconv.FormatInt(seedDataID, 10), nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("Client - Pictures - c.call: %w", err)
	}

	return resp.Pictures, nil
}

func (c *Client) Healthy(ctx context.Context) error {
	if err := c.call(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("Client - Healthy - c.call: %w", err)
	}

	return nil
}

// call sends body as JSON and decodes a 2xx answer into target. Transport
// failures and non-2xx answers wrap errs.ErrTransport; a 404 also wraps
// errs.ErrRecordNotFound.
func (c *Client) call(ctx context.Context, method, endpoint string, body, target interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: io.ReadAll: %w", errs.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
		if resp.StatusCode == http.StatusNotFound {
			return errors.Join(errs.ErrTransport, errs.ErrRecordNotFound, statusErr)
		}

		return errors.Join(errs.ErrTransport, statusErr)
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, target); err != nil {
		return fmt.Errorf("%w: json.Unmarshal: %w", errs.ErrTransport, err)
	}

	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}

	return strings.TrimSpace(string(body))
}

func query(filter dto.Filter) string {
	v := url.Values{}
	if filter.Query != "" {
		v.Set("q", filter.Query)
	}

	flags := []struct {
		name string
		val  *bool
	}{
		{"germinated", filter.Flags.Germinated},
		{"vigorous", filter.Flags.Vigorous},
		{"small", filter.Flags.Small},
		{"abnormal", filter.Flags.Abnormal},
		{"usable", filter.Flags.Usable},
	}
	for _, f := range flags {
		if f.val != nil && *f.val {
			v.Set(f.name, "true")
		}
	}

	if len(v) == 0 {
		return ""
	}

	return "?" + v.Encode()
}
