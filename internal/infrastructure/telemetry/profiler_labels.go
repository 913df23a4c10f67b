package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Pyroscope label keys. Every key attached to a profile must stay
// low-cardinality; the Pyroscope ingester keeps one series per label
// combination.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelPartner    = "partner"
	ProfilingLabelOperation  = "operation"
)

const maxLabelValueLen = 128

// blockedProfilingLabels lists keys whose values grow with traffic,
// one per message or request. sanitizeLabels drops them silently to
// keep hot paths free of log spam. Partner codes are deliberately
// absent: the onboarded partner set is small and worth slicing by.
var blockedProfilingLabels = map[string]struct{}{
	"message_ref":     {},
	"interchange_ref": {},
	"order_id":        {},
	"request_id":      {},
	"trace_id":        {},
	"span_id":         {},
}

// WithProfilingLabels runs fn with the given Pyroscope labels attached
// to the context. Samples taken while fn runs carry the labels, so the
// Pyroscope UI can slice CPU time by route, partner, or operation.
//
// The map is copied before use; callers may reuse or mutate it after
// the call returns. With no usable labels fn runs unlabeled.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// OperationLabels builds a label set for a named unit of work, such as
// "encode_order" or "dispatch_batch", merging any extra labels on top.
func OperationLabels(operation string, extra map[string]string) map[string]string {
	labels := make(map[string]string, len(extra)+1)
	labels[ProfilingLabelOperation] = operation
	maps.Copy(labels, extra)
	return labels
}

// sanitizeLabels turns a label map into the flat key/value slice the
// pyroscope API takes. Blocked and empty entries are dropped, values
// are truncated, keys normalized to snake_case, and the output is
// sorted so identical maps always produce the same label set.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if key == "" || value == "" {
			continue
		}
		if _, blocked := blockedProfilingLabels[key]; blocked {
			continue
		}
		if len(value) > maxLabelValueLen {
			value = value[:maxLabelValueLen]
		}
		if normalized := normalizeLabelKey(key); normalized != "" {
			pairs = append(pairs, normalized, value)
		}
	}
	return pairs
}

// normalizeLabelKey lowercases the key and strips everything outside
// [a-z0-9_], mapping spaces and dashes to underscores first.
func normalizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "-", "_")

	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
