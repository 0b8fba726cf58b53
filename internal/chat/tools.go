package chat

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/clarus/internal/metrics"
)

const ToolCurrentTime = "get_current_time"

const timeFormat = "Monday 2 January 2006, 15:04 MST"

var currentTimeTool = wireTool{
	Type: "function",
	Function: wireFunction{
		Name:        ToolCurrentTime,
		Description: "Get the current date and time in an IANA timezone.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"timezone": map[string]any{
					"type":        "string",
					"description": "IANA timezone name, for example Europe/Stockholm.",
				},
			},
		},
	},
}

type currentTimeResult struct {
	Timezone  string `json:"timezone,omitempty"`
	Datetime  string `json:"datetime,omitempty"`
	Formatted string `json:"formatted,omitempty"`
	Error     string `json:"error,omitempty"`
}

// toolRunner executes tool calls requested by the model. Failures are
// reported to the model as an error result, never to the caller.
type toolRunner struct {
	defaultZone string
	now         func() time.Time
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// run executes every call and returns the tool messages for the follow-up request.
func (t *toolRunner) run(calls []wireToolCall) []wireMessage {
	messages := make([]wireMessage, 0, len(calls))
	for _, call := range calls {
		result := t.execute(call)
		data, _ := json.Marshal(result)

		t.metrics.ToolCall(call.Function.Name)
		t.logger.Info("tool call executed", "tool", call.Function.Name, "id", call.ID, "error", result.Error)

		messages = append(messages, wireMessage{
			Role:       "tool",
			Content:    string(data),
			ToolCallID: call.ID,
		})
	}
	return messages
}

func (t *toolRunner) execute(call wireToolCall) currentTimeResult {
	if call.Function.Name != ToolCurrentTime {
		return currentTimeResult{Error: fmt.Sprintf("unknown tool: %s", call.Function.Name)}
	}

	var args struct {
		Timezone string `json:"timezone"`
	}
	if strings.TrimSpace(call.Function.Arguments) != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return currentTimeResult{Error: fmt.Sprintf("invalid arguments: %v", err)}
		}
	}
	return t.currentTime(args.Timezone)
}

func (t *toolRunner) currentTime(zone string) currentTimeResult {
	zone = strings.TrimSpace(zone)
	if zone == "" {
		zone = t.defaultZone
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return currentTimeResult{Error: fmt.Sprintf("unknown timezone: %s", zone)}
	}

	now := t.now().In(loc)
	return currentTimeResult{
		Timezone:  zone,
		Datetime:  now.Format(time.RFC3339),
		Formatted: now.Format(timeFormat),
	}
}
