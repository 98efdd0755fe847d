package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/mance-cyber/Canto-Beats-Apps/internal/asr"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/media"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/subtitle"
	"github.com/mance-cyber/Canto-Beats-Apps/internal/vad"
)

// ErrorKind classifies a pipeline failure for callers that decide
// retry or messaging policy. The pipeline itself never retries.
type ErrorKind string

const (
	KindInvalidSegment    ErrorKind = "invalid_segment"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindDecode            ErrorKind = "decode_error"
	KindModelLoad         ErrorKind = "model_load_error"
	KindExportIO          ErrorKind = "export_io_error"
	KindCancelled         ErrorKind = "cancelled"
	KindInternal          ErrorKind = "internal_error"
)

// Error is a classified pipeline failure with the stage it occurred
// in.
type Error struct {
	Kind  ErrorKind
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline %s failed (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify wraps err with its kind and originating stage.
func classify(stage Stage, err error) *Error {
	kind := KindInternal
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		kind = KindCancelled
	case errors.Is(err, media.ErrUnsupportedFormat):
		kind = KindUnsupportedFormat
	case errors.Is(err, media.ErrDecode):
		kind = KindDecode
	case errors.Is(err, subtitle.ErrInvalidSegment):
		kind = KindInvalidSegment
	case errors.Is(err, subtitle.ErrExportIO):
		kind = KindExportIO
	case errors.Is(err, asr.ErrModelLoad) || errors.Is(err, vad.ErrModelLoad):
		kind = KindModelLoad
	}
	return &Error{Kind: kind, Stage: stage, Err: err}
}
