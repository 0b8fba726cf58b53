package chat

import "encoding/json"

// Upstream chat-completions payloads.

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
}

type wireToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function wireFunctionCall `json:"function"`
}

type wireFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
}

type toolCallDelta struct {
	Index    int    `json:"index"`
	ID       string `json:"id,omitempty"`
	Type     string `json:"type,omitempty"`
	Function struct {
		Name      string `json:"name,omitempty"`
		Arguments string `json:"arguments,omitempty"`
	} `json:"function"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content   string          `json:"content,omitempty"`
			ToolCalls []toolCallDelta `json:"tool_calls,omitempty"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c *streamChunk) content() string {
	var s string
	for _, choice := range c.Choices {
		s += choice.Delta.Content
	}
	return s
}

func (c *streamChunk) toolCalls() []toolCallDelta {
	var deltas []toolCallDelta
	for _, choice := range c.Choices {
		deltas = append(deltas, choice.Delta.ToolCalls...)
	}
	return deltas
}

// frameContent extracts the content delta of a frame, or "" when the frame
// does not decode.
func frameContent(frame []byte) string {
	var chunk streamChunk
	if err := json.Unmarshal(frame, &chunk); err != nil {
		return ""
	}
	return chunk.content()
}

// contentFrame builds a frame in the upstream stream shape carrying text.
func contentFrame(text string) []byte {
	frame := map[string]any{
		"choices": []map[string]any{
			{"index": 0, "delta": map[string]string{"role": RoleAssistant, "content": text}},
		},
	}
	data, _ := json.Marshal(frame)
	return data
}
