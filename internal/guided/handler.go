package guided

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/clarus/pkg/handlers"
	"github.com/JaimeStill/clarus/pkg/routes"
)

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
		Prefix:      "/guided",
		Tags:        []string{"Guided"},
		Description: "Guided workflows, sessions, and derived tasks",
		Children: []routes.Group{
			{
				Prefix: "/workflows",
				Tags:   []string{"Guided Workflows"},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.ListWorkflows, OpenAPI: Spec.ListWorkflows},
					{Method: "GET", Pattern: "/{workflow_id}", Handler: h.FindWorkflow, OpenAPI: Spec.FindWorkflow},
					{Method: "GET", Pattern: "/{workflow_id}/steps/{step_id}", Handler: h.FindStep, OpenAPI: Spec.FindStep},
				},
			},
			{
				Prefix: "/sessions",
				Tags:   []string{"Guided Sessions"},
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.History, OpenAPI: Spec.History},
					{Method: "POST", Pattern: "", Handler: h.Start, OpenAPI: Spec.Start},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
					{Method: "POST", Pattern: "/{id}/answers", Handler: h.Answer, OpenAPI: Spec.Answer},
				},
			},
		},
	}
}

func (h *Handler) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Workflows())
}

func (h *Handler) FindWorkflow(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Workflow(r.PathValue("workflow_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) FindStep(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.Step(r.PathValue("workflow_id"), r.PathValue("step_id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var cmd StartCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	workflowID := strings.TrimSpace(cmd.WorkflowID)
	if workflowID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: workflow_id is required", ErrInvalidRequest))
		return
	}

	result, err := h.sys.Start(r.Context(), workflowID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, result)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.sys.History(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	var cmd AnswerCommand
	if err := handlers.DecodeJSON(r, &cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Answer(r.Context(), id, cmd.Answer)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// sessionID reads the {id} path value. An id that is not a UUID cannot name
// a stored session, so it is reported as not found.
func sessionID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrSessionNotFound, raw)
	}
	return id, nil
}
