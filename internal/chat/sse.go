package chat

import (
	"bufio"
	"bytes"
	"io"
)

const (
	sseDone       = "[DONE]"
	maxFrameBytes = 1 << 20
)

var dataPrefix = []byte("data:")

// sseScanner reads the data payloads of a Server-Sent Events stream.
// Comment lines, other fields, and blank separators are skipped.
type sseScanner struct {
	scanner *bufio.Scanner
	data    []byte
}

func newSSEScanner(r io.Reader) *sseScanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)
	return &sseScanner{scanner: scanner}
}

// Scan advances to the next data payload.
func (s *sseScanner) Scan() bool {
	for s.scanner.Scan() {
		line := bytes.TrimRight(s.scanner.Bytes(), "\r")
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}

		payload := bytes.TrimPrefix(line, dataPrefix)
		payload = bytes.TrimPrefix(payload, []byte(" "))
		s.data = bytes.Clone(payload)
		return true
	}
	return false
}

// Data returns the current payload. The slice is owned by the caller.
func (s *sseScanner) Data() []byte {
	return s.data
}

// Done reports whether the current payload is the end-of-stream sentinel.
func (s *sseScanner) Done() bool {
	return string(bytes.TrimSpace(s.data)) == sseDone
}

func (s *sseScanner) Err() error {
	return s.scanner.Err()
}
