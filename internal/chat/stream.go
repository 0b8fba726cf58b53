package chat

import (
	"encoding/json"
	"sort"
)

type streamState int

const (
	stateUndetermined streamState = iota
	statePlain
	stateTool
)

func (s streamState) String() string {
	switch s {
	case statePlain:
		return "plain"
	case stateTool:
		return "tool"
	default:
		return "undetermined"
	}
}

// decider classifies the first upstream stream of an exchange. Frames are
// held until the first content or tool-call delta decides the mode; nothing
// is forwarded before that decision.
type decider struct {
	state   streamState
	pending [][]byte
	calls   map[int]*wireToolCall
}

// observe consumes one frame and returns the frames to forward now, in order.
func (d *decider) observe(frame []byte) [][]byte {
	switch d.state {
	case statePlain:
		return [][]byte{frame}
	case stateTool:
		var chunk streamChunk
		if err := json.Unmarshal(frame, &chunk); err == nil {
			d.accumulate(chunk.toolCalls())
		}
		return nil
	}

	var chunk streamChunk
	if err := json.Unmarshal(frame, &chunk); err != nil {
		d.pending = append(d.pending, frame)
		return nil
	}

	if deltas := chunk.toolCalls(); len(deltas) > 0 {
		d.state = stateTool
		d.pending = nil
		d.accumulate(deltas)
		return nil
	}

	if chunk.content() != "" {
		d.state = statePlain
		out := append(d.pending, frame)
		d.pending = nil
		return out
	}

	d.pending = append(d.pending, frame)
	return nil
}

// finish is called at upstream end. An undecided stream is flushed as plain.
func (d *decider) finish() [][]byte {
	if d.state == stateTool {
		return nil
	}
	out := d.pending
	d.pending = nil
	d.state = statePlain
	return out
}

func (d *decider) accumulate(deltas []toolCallDelta) {
	if d.calls == nil {
		d.calls = make(map[int]*wireToolCall)
	}
	for _, delta := range deltas {
		call, ok := d.calls[delta.Index]
		if !ok {
			call = &wireToolCall{Type: "function"}
			d.calls[delta.Index] = call
		}
		if delta.ID != "" {
			call.ID = delta.ID
		}
		if delta.Type != "" {
			call.Type = delta.Type
		}
		if delta.Function.Name != "" {
			call.Function.Name = delta.Function.Name
		}
		call.Function.Arguments += delta.Function.Arguments
	}
}

// toolCalls returns the reassembled calls ordered by index.
func (d *decider) toolCalls() []wireToolCall {
	indexes := make([]int, 0, len(d.calls))
	for i := range d.calls {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	calls := make([]wireToolCall, 0, len(indexes))
	for _, i := range indexes {
		calls = append(calls, *d.calls[i])
	}
	return calls
}
