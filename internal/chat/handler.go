package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/clarus/pkg/handlers"
	"github.com/JaimeStill/clarus/pkg/routes"
)

const maxMessagesLimit = 500

type Handler struct {
	sys    System
	logger *slog.Logger
}

func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger,
	}
}

func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/chat",
		Tags:        []string{"Chat"},
		Description: "Chat relay to the upstream completion API",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Send, OpenAPI: Spec.Send},
			{Method: "POST", Pattern: "/stream", Handler: h.Stream, OpenAPI: Spec.Stream},
			{Method: "GET", Pattern: "/messages", Handler: h.Messages, OpenAPI: Spec.Messages},
		},
	}
}

// Send handles POST /api/chat.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrMessageRequired, err))
		return
	}

	resp, err := h.sys.Send(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

// Stream handles POST /api/chat/stream as Server-Sent Events.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrMessageRequired, err))
		return
	}

	stream, err := h.sys.Stream(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.writeSSEStream(w, r, stream)
}

// Messages handles GET /api/chat/messages.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidLimit)
			return
		}
		limit = min(n, maxMessagesLimit)
	}

	entries, err := h.sys.Messages(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}

func (h *Handler) writeSSEStream(w http.ResponseWriter, r *http.Request, stream <-chan Chunk) {
	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	flush()

	for chunk := range stream {
		if chunk.Err != nil {
			data, _ := json.Marshal(map[string]string{"error": chunk.Err.Error()})
			fmt.Fprintf(w, "data: %s\n\n", data)
			flush()
			return
		}

		select {
		case <-r.Context().Done():
			return
		default:
		}

		fmt.Fprintf(w, "data: %s\n\n", chunk.Data)
		flush()
	}

	if r.Context().Err() != nil {
		return
	}

	fmt.Fprintf(w, "data: [DONE]\n\n")
	flush()
}
