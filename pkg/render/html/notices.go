package html

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/flow"
)

// NoticeProvider is implemented by view providers that can explain why a step
// is not showing live external data. Render picks it up when present.
type NoticeProvider interface {
	StepNotices(stepID string) []string
}

func stepNotices(views flow.ViewProvider, stepID string) []string {
	provider, ok := views.(NoticeProvider)
	if !ok {
		return nil
	}
	return normalizeMessages(provider.StepNotices(stepID))
}

// normalizeMessages trims messages and drops blanks and duplicates, keeping
// order.
func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
