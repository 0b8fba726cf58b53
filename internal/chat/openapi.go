package chat

import "github.com/JaimeStill/clarus/pkg/openapi"

type spec struct {
	Send     *openapi.Operation
	Stream   *openapi.Operation
	Messages *openapi.Operation
}

var Spec = spec{
	Send: &openapi.Operation{
		Summary:     "Chat",
		Description: "Sends a message with optional history and returns the full answer with up to three matching legislation citations. Without an API key the answer is a not-configured notice.",
		RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Answer", "ChatResponse"),
			400: openapi.ResponseRef("BadRequest"),
			502: openapi.ResponseRef("BadGateway"),
			504: openapi.ResponseRef("GatewayTimeout"),
		},
	},
	Stream: &openapi.Operation{
		Summary:     "Chat stream",
		Description: "Relays upstream completion frames as Server-Sent Events in arrival order, ending with a [DONE] frame. A get_current_time tool call is resolved before any frame is sent.",
		RequestBody: openapi.RequestBodyJSON("ChatRequest", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseEventStream("Completion frames"),
			400: openapi.ResponseRef("BadRequest"),
			502: openapi.ResponseRef("BadGateway"),
			504: openapi.ResponseRef("GatewayTimeout"),
		},
	},
	Messages: &openapi.Operation{
		Summary:     "Chat transcript",
		Description: "Returns the most recent transcript entries, oldest first",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("limit", "integer", "Maximum entries to return", false),
		},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Transcript entries",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("ChatEntry")}},
				},
			},
			400: openapi.ResponseRef("BadRequest"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	message := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"role":    {Type: "string", Enum: []string{"user", "assistant", "model"}},
			"content": {Type: "string"},
		},
		Required: []string{"role", "content"},
	}

	return map[string]*openapi.Schema{
		"ChatMessage": message,
		"ChatRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"message": {Type: "string", Example: "What time is it in Stockholm?"},
				"history": {Type: "array", Items: openapi.SchemaRef("ChatMessage")},
			},
			Required: []string{"message"},
		},
		"Citation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string"},
				"title":       {Type: "string"},
				"url":         {Type: "string"},
				"snippet":     {Type: "string"},
				"source_type": {Type: "string"},
			},
		},
		"ChatResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"answer":    {Type: "string"},
				"citations": {Type: "array", Items: openapi.SchemaRef("Citation")},
			},
		},
		"ChatEntry": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Format: "uuid"},
				"role":       {Type: "string", Enum: []string{"user", "assistant"}},
				"content":    {Type: "string"},
				"mode":       {Type: "string", Enum: []string{"single", "stream"}},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
	}
}
