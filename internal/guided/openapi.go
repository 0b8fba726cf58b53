package guided

import "github.com/JaimeStill/clarus/pkg/openapi"

type spec struct {
	ListWorkflows *openapi.Operation
	FindWorkflow  *openapi.Operation
	FindStep      *openapi.Operation
	Start         *openapi.Operation
	History       *openapi.Operation
	Find          *openapi.Operation
	Answer        *openapi.Operation
}

var Spec = spec{
	ListWorkflows: &openapi.Operation{
		Summary:     "List workflows",
		Description: "Returns every guided workflow in definition order, without steps",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Workflow summaries",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("WorkflowSummary")}},
				},
			},
		},
	},
	FindWorkflow: &openapi.Operation{
		Summary:     "Get workflow",
		Description: "Returns a workflow with its ordered steps",
		Parameters: []*openapi.Parameter{
			openapi.PathParamString("workflow_id", "Workflow identifier"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Workflow definition", "Workflow"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	FindStep: &openapi.Operation{
		Summary:     "Get workflow step",
		Description: "Returns a single step definition",
		Parameters: []*openapi.Parameter{
			openapi.PathParamString("workflow_id", "Workflow identifier"),
			openapi.PathParamString("step_id", "Step identifier"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Step definition", "Step"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Start: &openapi.Operation{
		Summary:     "Start session",
		Description: "Creates a session positioned at the workflow's first step",
		RequestBody: openapi.RequestBodyJSON("StartCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created session", "Session"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	History: &openapi.Operation{
		Summary:     "Session history",
		Description: "Returns all sessions, most recently created first",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Sessions",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Session")}},
				},
			},
		},
	},
	Find: &openapi.Operation{
		Summary: "Get session",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Session UUID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session", "Session"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Answer: &openapi.Operation{
		Summary:     "Submit answer",
		Description: "Records the answer for the current step and advances the session. Answering the terminal step completes the session and derives tasks and warnings.",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Session UUID"),
		},
		RequestBody: openapi.RequestBodyJSON("AnswerCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated session", "Session"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"WorkflowSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Example: "renewal"},
				"title":       {Type: "string", Example: "Work Permit Renewal"},
				"description": {Type: "string"},
			},
		},
		"Workflow": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string"},
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"steps":       {Type: "array", Items: openapi.SchemaRef("Step")},
			},
		},
		"Step": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":       {Type: "string", Example: "expiry_date"},
				"title":    {Type: "string"},
				"question": {Type: "string"},
				"type":     {Type: "string", Enum: []string{"text", "date", "radio"}},
				"options":  {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"next":     {Type: "string", Description: "Next step id; absent on the terminal step"},
			},
			Required: []string{"id", "title", "question", "type"},
		},
		"Task": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Example: "t-renewal-1"},
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"due_date":    {Type: "string", Format: "date"},
			},
		},
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":              {Type: "string", Format: "uuid"},
				"workflow_id":     {Type: "string"},
				"current_step_id": {Type: "string", Nullable: true},
				"answers":         {Type: "object", Description: "Step id to literal answer"},
				"is_complete":     {Type: "boolean"},
				"tasks":           {Type: "array", Items: openapi.SchemaRef("Task")},
				"warnings":        {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"version":         {Type: "integer"},
				"created_at":      {Type: "string", Format: "date-time"},
				"updated_at":      {Type: "string", Format: "date-time"},
			},
		},
		"StartCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"workflow_id": {Type: "string", Example: "renewal"},
			},
			Required: []string{"workflow_id"},
		},
		"AnswerCommand": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"answer": {Type: "string", Example: "2025-06-01"},
			},
			Required: []string{"answer"},
		},
	}
}
