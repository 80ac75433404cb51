// Package sink holds ResultSink implementations fed by monitor.Dispatch.
package sink

import (
	"fmt"
	"go-clipboard-converter/domain"
	"go-clipboard-converter/monitor"
	"io"
	"sync"
)

const timestampLayout = "2006-01-02 15:04:05"

// Writer prints one line per result, e.g. "[2024-03-19 12:00:00] 12.50 USD -> 16,667원"
type Writer struct {
	lock sync.Mutex
	w    io.Writer
}

// NewWriter returns a Writer printing to w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (s *Writer) Accept(r domain.ConversionResult) {
	s.lock.Lock()
	defer s.lock.Unlock()
	fmt.Fprintf(s.w, "[%s] %s -> %s\n", r.ObservedAt.Format(timestampLayout), r.OriginalText, r.ConvertedText)
}

// Multi hands every result to each sink in order
type Multi []monitor.ResultSink

func (m Multi) Accept(r domain.ConversionResult) {
	for _, s := range m {
		s.Accept(r)
	}
}
