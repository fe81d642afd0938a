package output

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	json "github.com/goccy/go-json"
)

// JSONSink writes each emitted value as one JSON document followed by a newline.
type JSONSink struct {
	w      io.Writer
	pretty bool
	mu     sync.Mutex
}

func NewJSONSink(w io.Writer, pretty bool) *JSONSink {
	return &JSONSink{w: w, pretty: pretty}
}

// Emit encodes records and flushes them to the underlying writer.
func (s *JSONSink) Emit(records any) error {
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writer := bufio.NewWriter(s.w)
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write newline: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
