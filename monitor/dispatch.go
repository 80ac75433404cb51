package monitor

import (
	"fmt"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-clipboard-converter/domain"
)

// ResultSink receives converted amounts, e.g. a display
type ResultSink interface {
	Accept(r domain.ConversionResult)
}

// SinkFunc adapts a function to a ResultSink
type SinkFunc func(r domain.ConversionResult)

func (f SinkFunc) Accept(r domain.ConversionResult) {
	f(r)
}

// Dispatch hands every result to sink until results is closed.
// This is expected to be called from the go-routine that owns presentation.
func Dispatch(results <-chan domain.ConversionResult, sink ResultSink, logger log.Logger) {
	for r := range results {
		accept(sink, r, logger)
	}
}

func accept(sink ResultSink, r domain.ConversionResult, logger log.Logger) {
	defer func() {
		if p := recover(); p != nil {
			level.Error(logger).Log("msg", "result sink failed", "id", r.ID, "panic", fmt.Sprint(p))
		}
	}()
	sink.Accept(r)
}
