package normalize

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/vidx/internal/shared"
)

type record struct {
	ID int `json:"id"`
}

func ids(t *testing.T, n *Normalizer, data string, named ...string) []int {
	t.Helper()
	var out []int
	for _, r := range List[record](n, []byte(data), named...) {
		out = append(out, r.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDecode(t *testing.T) {
	tc := []struct {
		name    string
		payload string
		named   []string
		kind    Kind
		field   string
		want    []int
	}{
		{name: "bare array", payload: `[{"id":3},{"id":1},{"id":2}]`, kind: Bare, want: []int{3, 1, 2}},
		{name: "paginated", payload: `{"count":40,"next":null,"results":[{"id":1},{"id":2}]}`, kind: Paginated, field: "results", want: []int{1, 2}},
		{name: "itemized", payload: `{"items":[{"id":5}]}`, kind: Itemized, field: "items", want: []int{5}},
		{name: "wrapped", payload: `{"data":[{"id":9},{"id":8}]}`, kind: Wrapped, field: "data", want: []int{9, 8}},
		{name: "declared named field", payload: `{"playlists":[{"id":4}],"total":1}`, named: []string{"playlists"}, kind: Named, field: "playlists", want: []int{4}},
		{name: "single undeclared array field", payload: `{"videos":[{"id":7}],"name":"x"}`, kind: Named, field: "videos", want: []int{7}},
		{name: "empty bare array", payload: `[]`, kind: Bare, want: []int{}},
		{name: "results beats items and data", payload: `{"data":[{"id":3}],"items":[{"id":2}],"results":[{"id":1}]}`, kind: Paginated, field: "results", want: []int{1}},
		{name: "items beats data", payload: `{"data":[{"id":3}],"items":[{"id":2}]}`, kind: Itemized, field: "items", want: []int{2}},
		{name: "data beats named", payload: `{"videos":[{"id":3}],"data":[{"id":2}]}`, named: []string{"videos"}, kind: Wrapped, field: "data", want: []int{2}},
		{name: "named in declaration order", payload: `{"b":[{"id":2}],"a":[{"id":1}]}`, named: []string{"b", "a"}, kind: Named, field: "b", want: []int{2}},
		{name: "null results falls through", payload: `{"results":null,"items":[{"id":6}]}`, kind: Itemized, field: "items", want: []int{6}},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			env, err := Decode([]byte(tt.payload), tt.named...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if env.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, env.Kind)
			}
			if env.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, env.Field)
			}
			if len(env.Items) != len(tt.want) {
				t.Errorf("expected %d items, got %d", len(tt.want), len(env.Items))
			}

			n := New(log.New(&bytes.Buffer{}))
			got := ids(t, n, tt.payload, tt.named...)
			if !equalInts(got, tt.want) {
				t.Errorf("expected ids %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("paginated count", func(t *testing.T) {
		env, err := Decode([]byte(`{"count":40,"results":[]}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if env.Count == nil || *env.Count != 40 {
			t.Errorf("expected count 40, got %v", env.Count)
		}
	})

	t.Run("unknown shapes", func(t *testing.T) {
		for _, payload := range []string{
			``,
			`"text"`,
			`42`,
			`null`,
			`{"detail":"Not found."}`,
			`{"a":[1],"b":[2]}`,
			`{"data":{"videos":[{"id":1}]}}`,
			`{"results":`,
		} {
			if _, err := Decode([]byte(payload)); !errors.Is(err, shared.ErrMalformedResponse) {
				t.Errorf("payload %q: expected ErrMalformedResponse, got %v", payload, err)
			}
		}
	})
}

func TestNormalizer(t *testing.T) {
	t.Run("Unknown Shape Yields Empty And Logs", func(t *testing.T) {
		var buf bytes.Buffer
		n := New(log.New(&buf))

		items := n.Normalize([]byte(`{"detail":"Authentication credentials were not provided."}`))
		if items == nil || len(items) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", items)
		}
		if !strings.Contains(buf.String(), "unrecognized list envelope") {
			t.Errorf("expected diagnostic to be logged, got %q", buf.String())
		}
	})

	t.Run("Malformed Item Yields Empty", func(t *testing.T) {
		var buf bytes.Buffer
		n := New(log.New(&buf))

		got := List[record](n, []byte(`[{"id":1},{"id":"x"}]`))
		if len(got) != 0 {
			t.Errorf("expected empty result, got %v", got)
		}
		if !strings.Contains(buf.String(), "malformed list item") {
			t.Errorf("expected diagnostic to be logged, got %q", buf.String())
		}
	})

	t.Run("Nested Data Object Is Not Descended", func(t *testing.T) {
		n := New(log.New(&bytes.Buffer{}))
		if got := ids(t, n, `{"data":{"videos":[{"id":1}]}}`, "videos"); len(got) != 0 {
			t.Errorf("expected empty result, got %v", got)
		}
	})

	t.Run("Nil Logger Defaults", func(t *testing.T) {
		if New(nil).logger == nil {
			t.Error("expected default logger")
		}
	})
}
