package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/clarus/internal/metrics"
)

type relay struct {
	cfg        Config
	client     *client
	tools      *toolRunner
	retriever  Retriever
	transcript Transcript
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*relay)

// WithHTTPClient replaces the client used for upstream calls.
func WithHTTPClient(c *http.Client) Option {
	return func(r *relay) {
		r.client.http = c
	}
}

// WithTranscript records completed exchanges in t.
func WithTranscript(t Transcript) Option {
	return func(r *relay) {
		r.transcript = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *relay) {
		r.metrics = m
	}
}

// WithRetriever replaces the source lookup. A nil retriever disables
// citations.
func WithRetriever(rt Retriever) Option {
	return func(r *relay) {
		r.retriever = rt
	}
}

// WithClock overrides the time source used by tools and the transcript.
func WithClock(now func() time.Time) Option {
	return func(r *relay) {
		r.now = now
	}
}

// New creates the chat relay. cfg must already be finalized.
func New(cfg Config, logger *slog.Logger, opts ...Option) System {
	logger = logger.With("system", "chat")
	r := &relay{
		cfg: cfg,
		client: &client{
			http:    &http.Client{},
			cfg:     cfg,
			timeout: cfg.TimeoutDuration(),
		},
		retriever:  NewLegislationRetriever(),
		transcript: NewMemoryTranscript(),
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tools = &toolRunner{
		defaultZone: cfg.DefaultTimezone,
		now:         r.now,
		metrics:     r.metrics,
		logger:      logger,
	}
	return r
}

func (r *relay) Configured() bool {
	return r.cfg.Configured()
}

func (r *relay) Send(ctx context.Context, req Request) (*Response, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if !r.Configured() {
		r.metrics.ChatRequest(ModeSingle, "not_configured")
		return &Response{Answer: NotConfiguredMessage, Citations: []Citation{}}, nil
	}

	start := time.Now()
	received := r.timestamp()
	sources := r.retrieve(req.Message)
	messages := r.buildMessages(req, sources)

	msg, err := r.client.complete(ctx, r.completion(messages, true, false))
	if err == nil && len(msg.ToolCalls) > 0 {
		messages = append(messages, wireMessage{Role: RoleAssistant, Content: msg.Content, ToolCalls: msg.ToolCalls})
		messages = append(messages, r.tools.run(msg.ToolCalls)...)
		msg, err = r.client.complete(ctx, r.completion(messages, false, false))
	}
	r.metrics.UpstreamDuration(ModeSingle, time.Since(start))

	if err != nil {
		r.metrics.ChatRequest(ModeSingle, "error")
		return nil, err
	}

	r.metrics.ChatRequest(ModeSingle, "ok")
	r.record(ctx, ModeSingle, req.Message, received, msg.Content)

	return &Response{Answer: msg.Content, Citations: sources}, nil
}

func (r *relay) Stream(ctx context.Context, req Request) (<-chan Chunk, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	out := make(chan Chunk)

	if !r.Configured() {
		r.metrics.ChatRequest(ModeStream, "not_configured")
		go func() {
			defer close(out)
			select {
			case out <- Chunk{Data: contentFrame(NotConfiguredMessage)}:
			case <-ctx.Done():
			}
		}()
		return out, nil
	}

	received := r.timestamp()
	messages := r.buildMessages(req, r.retrieve(req.Message))

	start := time.Now()
	up, err := r.client.post(ctx, r.completion(messages, true, true))
	if err != nil {
		r.metrics.ChatRequest(ModeStream, "error")
		return nil, err
	}

	go r.pump(ctx, req, received, start, messages, up, out)
	return out, nil
}

func (r *relay) Messages(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = r.cfg.TranscriptLimit
	}
	return r.transcript.List(ctx, limit)
}

// pump drives one streamed exchange: it relays or suppresses the first
// upstream stream, runs tools when requested, and relays the follow-up.
func (r *relay) pump(ctx context.Context, req Request, received, start time.Time, messages []wireMessage, up *upstreamResponse, out chan<- Chunk) {
	defer close(out)

	var answer strings.Builder
	send := func(frames [][]byte) bool {
		for _, frame := range frames {
			answer.WriteString(frameContent(frame))
			select {
			case out <- Chunk{Data: frame}:
			case <-ctx.Done():
				return false
			}
		}
		return true
	}

	fail := func(err error) {
		if ctx.Err() != nil {
			r.metrics.ChatRequest(ModeStream, "cancelled")
			return
		}
		r.metrics.ChatRequest(ModeStream, "error")
		r.logger.Warn("stream failed", "error", err)
		select {
		case out <- Chunk{Err: err}:
		case <-ctx.Done():
		}
	}

	var d decider
	err := relayFrames(up, func(frame []byte) bool {
		return send(d.observe(frame))
	})
	up.Close()
	if err != nil {
		fail(err)
		return
	}
	if ctx.Err() != nil {
		r.metrics.ChatRequest(ModeStream, "cancelled")
		return
	}

	if d.state != stateTool {
		if !send(d.finish()) {
			r.metrics.ChatRequest(ModeStream, "cancelled")
			return
		}
		r.finishStream(ctx, req, received, start, answer.String())
		return
	}

	calls := d.toolCalls()
	r.logger.Debug("stream switched to tool mode", "calls", len(calls))

	messages = append(messages, wireMessage{Role: RoleAssistant, ToolCalls: calls})
	messages = append(messages, r.tools.run(calls)...)

	follow, err := r.client.post(ctx, r.completion(messages, false, true))
	if err != nil {
		fail(err)
		return
	}

	err = relayFrames(follow, func(frame []byte) bool {
		return send([][]byte{frame})
	})
	follow.Close()
	if err != nil {
		fail(err)
		return
	}
	if ctx.Err() != nil {
		r.metrics.ChatRequest(ModeStream, "cancelled")
		return
	}

	r.finishStream(ctx, req, received, start, answer.String())
}

func (r *relay) finishStream(ctx context.Context, req Request, received, start time.Time, answer string) {
	r.metrics.UpstreamDuration(ModeStream, time.Since(start))
	r.metrics.ChatRequest(ModeStream, "ok")
	r.record(ctx, ModeStream, req.Message, received, answer)
}

// relayFrames feeds every data payload of up to fn until the done sentinel,
// the end of the body, or fn returning false.
func relayFrames(up *upstreamResponse, fn func([]byte) bool) error {
	scanner := newSSEScanner(up.body)
	for scanner.Scan() {
		if scanner.Done() {
			return nil
		}
		if !fn(scanner.Data()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return up.classify(err)
	}
	if err := up.ctx.Err(); err != nil {
		return up.classify(err)
	}
	return nil
}

// retrieve never returns nil so the response always carries a list.
func (r *relay) retrieve(query string) []Citation {
	if r.retriever == nil {
		return []Citation{}
	}
	sources := r.retriever.Retrieve(query)
	if len(sources) == 0 {
		return []Citation{}
	}
	r.logger.Debug("sources retrieved", "count", len(sources))
	return sources
}

func (r *relay) buildMessages(req Request, sources []Citation) []wireMessage {
	messages := make([]wireMessage, 0, len(req.History)+3)
	messages = append(messages, wireMessage{Role: "system", Content: r.cfg.SystemPrompt})
	if len(sources) > 0 {
		messages = append(messages, contextMessage(sources))
	}
	for _, m := range req.History {
		messages = append(messages, wireMessage{Role: normalizeRole(m.Role), Content: m.Content})
	}
	return append(messages, wireMessage{Role: RoleUser, Content: req.Message})
}

func (r *relay) completion(messages []wireMessage, withTools, stream bool) completionRequest {
	body := completionRequest{
		Model:       r.cfg.Model,
		Messages:    messages,
		Temperature: r.cfg.Temperature,
		MaxTokens:   r.cfg.MaxTokens,
		Stream:      stream,
	}
	if withTools {
		body.Tools = []wireTool{currentTimeTool}
		body.ToolChoice = "auto"
	}
	return body
}

// record appends the exchange to the transcript. Failures are logged only.
func (r *relay) record(ctx context.Context, mode, question string, received time.Time, answer string) {
	if r.transcript == nil {
		return
	}

	user, err := newEntry(RoleUser, question, mode, received)
	if err != nil {
		r.logger.Warn("transcript entry failed", "error", err)
		return
	}
	assistant, err := newEntry(RoleAssistant, answer, mode, r.timestamp())
	if err != nil {
		r.logger.Warn("transcript entry failed", "error", err)
		return
	}

	ctx = context.WithoutCancel(ctx)
	if err := r.transcript.Append(ctx, user, assistant); err != nil {
		r.logger.Warn("transcript append failed", "error", fmt.Errorf("append: %w", err))
	}
}

func (r *relay) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}
