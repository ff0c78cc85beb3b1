// Package transfer talks to the document-processing server.
package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/moyoez/zipconsole/tool"
)

// Options configures a Client.
type Options struct {
	BaseURL          string
	HTTPClient       *http.Client  // defaults to tool.GetHttpClient()
	Token            func() string // bearer token source, read on every request
	UploadsPerSecond int           // 0 = unlimited
	BreakerFailures  uint32        // consecutive failures before the breaker opens, default 5
	BreakerCooldown  time.Duration // open state duration, default 30s
}

type Client struct {
	baseURL string
	http    *http.Client
	token   func() string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*reply]
}

// reply is a fully read server response.
type reply struct {
	StatusCode int
	Status     string
	Body       []byte
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = tool.GetHttpClient()
	}
	token := opts.Token
	if token == nil {
		token = func() string { return "" }
	}
	var limiter *rate.Limiter
	if opts.UploadsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.UploadsPerSecond), 1)
	}
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "processing-server",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// a cancelled run says nothing about server health
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			tool.DefaultLogger.Warnf("[Transfer] Circuit breaker %s: %s -> %s", name, from.String(), to.String())
		},
	}

	return &Client{
		baseURL: opts.BaseURL,
		http:    httpClient,
		token:   token,
		limiter: limiter,
		breaker: gobreaker.NewCircuitBreaker[*reply](settings),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsCircuitOpen reports whether err was produced by an open breaker instead of the server.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// do sends the request built by build through limiter and breaker.
// Transport errors and 5xx count against the breaker; any non-2xx is returned as *ResponseError.
func (c *Client) do(ctx context.Context, op string, build func(ctx context.Context) (*http.Request, error)) (*reply, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	rep, err := c.breaker.Execute(func() (*reply, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if token := c.token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%s cancelled: %w", op, ctx.Err())
			}
			return nil, fmt.Errorf("failed to send %s request: %v", op, err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
			}
		}()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %s response body: %v", op, readErr)
		}
		rep := &reply{StatusCode: resp.StatusCode, Status: resp.Status, Body: body}
		if resp.StatusCode >= http.StatusInternalServerError {
			return rep, newResponseError(op, rep)
		}
		return rep, nil
	})
	if err != nil {
		var respErr *ResponseError
		if errors.As(err, &respErr) {
			return nil, respErr
		}
		if IsCircuitOpen(err) {
			return nil, fmt.Errorf("%s: processing server unavailable: %w", op, err)
		}
		return nil, err
	}
	if rep.StatusCode < http.StatusOK || rep.StatusCode >= http.StatusMultipleChoices {
		return nil, newResponseError(op, rep)
	}
	return rep, nil
}

// decodeBody decodes a JSON body, falling back to the raw text. Empty bodies decode to nil.
func decodeBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := sonic.Unmarshal(trimmed, &v); err != nil {
		return string(body)
	}
	return v
}

// decodeList accepts either a bare JSON array or {"data": [...]}; anything else is an empty list.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []T{}, nil
	}
	switch trimmed[0] {
	case '[':
		var items []T
		if err := sonic.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to parse list response: %v", err)
		}
		return items, nil
	case '{':
		var wrapped struct {
			Data []T `json:"data"`
		}
		if err := sonic.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse list response: %v", err)
		}
		if wrapped.Data == nil {
			return []T{}, nil
		}
		return wrapped.Data, nil
	default:
		return []T{}, nil
	}
}
