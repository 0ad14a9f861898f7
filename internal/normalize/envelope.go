package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/shared"
)

// Kind identifies the envelope variant a payload decoded as.
type Kind int

const (
	Unknown Kind = iota
	Bare
	Paginated
	Itemized
	Wrapped
	Named
)

func (k Kind) String() string {
	switch k {
	case Bare:
		return "bare"
	case Paginated:
		return "paginated"
	case Itemized:
		return "itemized"
	case Wrapped:
		return "wrapped"
	case Named:
		return "named"
	default:
		return "unknown"
	}
}

// wellKnown lists the generic wrapper fields in priority order with the variant each selects.
var wellKnown = []struct {
	field string
	kind  Kind
}{
	{"results", Paginated},
	{"items", Itemized},
	{"data", Wrapped},
}

// Envelope is a decoded list payload.
type Envelope struct {
	Kind  Kind
	Field string // wrapper field the items came from; empty for Bare
	Count *int   // server-side total, Paginated only
	Items []json.RawMessage
}

// Decode classifies data as one of the envelope variants and extracts its items in order.
//
// named declares endpoint-specific wrapper fields (e.g. "playlists", "videos").
func Decode(data []byte, named ...string) (Envelope, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Envelope{}, fmt.Errorf("%w: empty body", shared.ErrMalformedResponse)
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return Envelope{}, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
		}
		return Envelope{Kind: Bare, Items: nonNil(items)}, nil
	case '{':
	default:
		return Envelope{}, fmt.Errorf("%w: expected array or object", shared.ErrMalformedResponse)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", shared.ErrMalformedResponse, err)
	}

	seen := make(map[string]bool, len(wellKnown)+len(named))
	for _, w := range wellKnown {
		seen[w.field] = true
		if items, ok := arrayField(fields, w.field); ok {
			env := Envelope{Kind: w.kind, Field: w.field, Items: items}
			if w.kind == Paginated {
				env.Count = countField(fields)
			}
			return env, nil
		}
	}

	for _, field := range named {
		seen[field] = true
		if items, ok := arrayField(fields, field); ok {
			return Envelope{Kind: Named, Field: field, Items: items}, nil
		}
	}

	var candidates []string
	for field := range fields {
		if seen[field] {
			continue
		}
		if _, ok := arrayField(fields, field); ok {
			candidates = append(candidates, field)
		}
	}
	if len(candidates) == 1 {
		items, _ := arrayField(fields, candidates[0])
		return Envelope{Kind: Named, Field: candidates[0], Items: items}, nil
	}

	sort.Strings(candidates)
	if len(candidates) > 1 {
		return Envelope{}, fmt.Errorf("%w: ambiguous array fields %v", shared.ErrMalformedResponse, candidates)
	}
	return Envelope{}, fmt.Errorf("%w: no list field in object", shared.ErrMalformedResponse)
}

func arrayField(fields map[string]json.RawMessage, name string) ([]json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, false
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return nonNil(items), true
}

func countField(fields map[string]json.RawMessage) *int {
	raw, ok := fields["count"]
	if !ok {
		return nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

func nonNil(items []json.RawMessage) []json.RawMessage {
	if items == nil {
		return []json.RawMessage{}
	}
	return items
}

// Normalizer extracts list items from any envelope, degrading to an empty list on malformed input.
type Normalizer struct {
	logger *log.Logger
}

// New creates a [Normalizer] that reports malformed payloads to logger.
func New(logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Normalizer{logger: logger}
}

// Normalize returns the embedded items of data in order. It never fails: unknown shapes yield an empty slice.
func (n *Normalizer) Normalize(data []byte, named ...string) []json.RawMessage {
	env, err := Decode(data, named...)
	if err != nil {
		n.logger.Warn("unrecognized list envelope", "error", err, "bytes", len(data))
		return []json.RawMessage{}
	}
	n.logger.Debug("normalized list envelope", "kind", env.Kind, "field", env.Field, "items", len(env.Items))
	return env.Items
}

// List normalizes data and decodes each item into T.
//
// An item that does not decode makes the whole payload malformed, so the result is empty.
func List[T any](n *Normalizer, data []byte, named ...string) []T {
	raw := n.Normalize(data, named...)
	out := make([]T, 0, len(raw))
	for i, item := range raw {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			n.logger.Warn("malformed list item", "index", i, "error", err)
			return []T{}
		}
		out = append(out, v)
	}
	return out
}
