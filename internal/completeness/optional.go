package completeness

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Optional distinguishes a value that was never provided from one that was
// provided, possibly empty.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a provided value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value was provided.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsZero reports whether the value was not provided. It drives omitzero.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Presence is the outcome of a catalog predicate.
type Presence int

const (
	Present Presence = iota
	Absent
	Empty
)

// String returns the state name reported on a MissingField.
func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case Empty:
		return "empty"
	default:
		return "absent"
	}
}

// textPresence treats whitespace-only text as empty.
func textPresence(o Optional[string]) Presence {
	v, ok := o.Get()
	if !ok {
		return Absent
	}
	if strings.TrimSpace(v) == "" {
		return Empty
	}
	return Present
}

func countPresence(n int) Presence {
	if n > 0 {
		return Present
	}
	return Absent
}

// anyPresent is the composite OR: present if any part is present, empty if
// some part was provided but blank, absent otherwise.
func anyPresent(parts ...Presence) Presence {
	out := Absent
	for _, p := range parts {
		switch p {
		case Present:
			return Present
		case Empty:
			out = Empty
		}
	}
	return out
}

// allPresent reports the first non-present state among parts. An empty
// input is vacuously present.
func allPresent(parts ...Presence) Presence {
	for _, p := range parts {
		if p != Present {
			return p
		}
	}
	return Present
}
