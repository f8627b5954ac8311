package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/internal/logging"
)

func TestNew_JSONIncludesFlowData(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := logging.WithFlowData(context.Background(), &logging.FlowData{FlowID: "onboarding", RunID: "run-1"})
	ctx = logging.WithStep(ctx, "profile")
	logger.With("component", "test").InfoContext(ctx, "bound step", slog.Int("fields", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode record: %v\n%s", err, buf.String())
	}
	group, ok := record["flow"].(map[string]any)
	if !ok {
		t.Fatalf("missing flow group: %v", record)
	}
	if group["id"] != "onboarding" || group["run"] != "run-1" || group["step"] != "profile" {
		t.Fatalf("unexpected flow group: %v", group)
	}
	if record["component"] != "test" || record["fields"] != float64(3) {
		t.Fatalf("unexpected attrs: %v", record)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn", "text")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	if _, err := logging.New(&bytes.Buffer{}, "loud", "text"); err == nil {
		t.Fatalf("expected level error")
	}
	if _, err := logging.New(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Fatalf("expected format error")
	}
}

func TestWithStep_WithoutFlow(t *testing.T) {
	t.Parallel()

	fd, ok := logging.FlowDataFrom(logging.WithStep(context.Background(), "s1"))
	if !ok || fd.StepID != "s1" || fd.FlowID != "" {
		t.Fatalf("unexpected flow data: %+v", fd)
	}
}
