package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is a platform entity identifier.
//
// The API is inconsistent about encoding ids, so ID accepts both JSON numbers and numeric strings.
type ID int64

// ParseID coerces a command-line or path argument into an [ID].
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON decodes a number, a numeric string, or null (zero).
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	i, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return fmt.Errorf("invalid id %s: %w", data, err)
		}
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return fmt.Errorf("invalid id %s: not a whole number", data)
		}
		i = int64(f)
	}
	*id = ID(i)
	return nil
}

// VideoRef is an entry of a playlist's embedded videos field, which holds either bare ids or video objects.
type VideoRef struct {
	ID    ID     `json:"id"`
	Title string `json:"title,omitempty"`
}

// UnmarshalJSON decodes a bare id or an object carrying an id.
func (r *VideoRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID    ID     `json:"id"`
			Title string `json:"title"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		r.ID, r.Title = obj.ID, obj.Title
		return nil
	}
	r.Title = ""
	return r.ID.UnmarshalJSON(data)
}
