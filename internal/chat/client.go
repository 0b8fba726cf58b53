package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxErrorBody = 64 * 1024

type client struct {
	http    *http.Client
	cfg     Config
	timeout time.Duration
}

// upstreamResponse is an open response body bound to its call deadline.
type upstreamResponse struct {
	body   io.ReadCloser
	ctx    context.Context
	cancel context.CancelFunc
}

func (u *upstreamResponse) Close() {
	u.body.Close()
	u.cancel()
}

// classify maps a transport or read failure onto the chat error kinds.
// Cancellation by the caller is returned as the context error.
func (u *upstreamResponse) classify(err error) error {
	return classifyError(u.ctx, err)
}

func classifyError(callCtx context.Context, err error) error {
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	case errors.Is(callCtx.Err(), context.Canceled):
		return callCtx.Err()
	default:
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
}

func (c *client) post(ctx context.Context, body completionRequest) (*upstreamResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("X-Title", c.cfg.AppName)
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if body.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		err = classifyError(callCtx, err)
		cancel()
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		cancel()
		return nil, &UpstreamError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(text))}
	}

	return &upstreamResponse{body: resp.Body, ctx: callCtx, cancel: cancel}, nil
}

// complete performs a non-streamed call and returns the first choice.
func (c *client) complete(ctx context.Context, body completionRequest) (wireMessage, error) {
	resp, err := c.post(ctx, body)
	if err != nil {
		return wireMessage{}, err
	}
	defer resp.Close()

	var result completionResponse
	if err := json.NewDecoder(resp.body).Decode(&result); err != nil {
		if resp.ctx.Err() != nil {
			return wireMessage{}, resp.classify(err)
		}
		return wireMessage{}, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	if len(result.Choices) == 0 {
		return wireMessage{}, fmt.Errorf("%w: response has no choices", ErrUpstream)
	}
	return result.Choices[0].Message, nil
}
