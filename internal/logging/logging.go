// Package logging builds the slog loggers used by the CLI and carries flow
// metadata through contexts so every record names the flow and step it
// belongs to.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the handler encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns a logger writing to w at the given level and format.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch Format(strings.ToLower(strings.TrimSpace(format))) {
	case FormatText, "":
		handler = slog.NewTextHandler(w, opts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
	return slog.New(Handler{Handler: handler}), nil
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", level)
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Handler decorates records with the flow data stored in the context.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if fd, ok := ctx.Value(flowDataKey{}).(*FlowData); ok {
		attrs := []any{slog.String("id", fd.FlowID)}
		if fd.RunID != "" {
			attrs = append(attrs, slog.String("run", fd.RunID))
		}
		if fd.StepID != "" {
			attrs = append(attrs, slog.String("step", fd.StepID))
		}
		r.AddAttrs(slog.Group("flow", attrs...))
	}
	return h.Handler.Handle(ctx, r)
}

func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return Handler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h Handler) WithGroup(name string) slog.Handler {
	return Handler{Handler: h.Handler.WithGroup(name)}
}

type flowDataKey struct{}

// FlowData identifies the flow run a log record belongs to.
type FlowData struct {
	FlowID string
	RunID  string
	StepID string
}

// WithFlowData stores data in ctx.
func WithFlowData(ctx context.Context, data *FlowData) context.Context {
	return context.WithValue(ctx, flowDataKey{}, data)
}

// FlowDataFrom returns the flow data stored in ctx, if any.
func FlowDataFrom(ctx context.Context) (*FlowData, bool) {
	fd, ok := ctx.Value(flowDataKey{}).(*FlowData)
	return fd, ok
}

// WithStep derives a context naming stepID, keeping the flow and run ids
// already stored in ctx.
func WithStep(ctx context.Context, stepID string) context.Context {
	next := FlowData{StepID: stepID}
	if fd, ok := FlowDataFrom(ctx); ok {
		next.FlowID, next.RunID = fd.FlowID, fd.RunID
	}
	return WithFlowData(ctx, &next)
}
