package types

import (
	"encoding/json"

	"github.com/aarondl/null/v8"
)

// OptionalString distinguishes a field that was left out of a JSON body
// from one sent as an explicit null. Set is true whenever the key appeared.
type OptionalString struct {
	Set bool
	null.String
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	return o.String.UnmarshalJSON(data)
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.String)
}

// Cleared reports an explicit null.
func (o OptionalString) Cleared() bool {
	return o.Set && !o.Valid
}

func NewOptionalString(s string) OptionalString {
	return OptionalString{Set: true, String: null.StringFrom(s)}
}

func NullOptionalString() OptionalString {
	return OptionalString{Set: true}
}

// OptionalInt is the integer counterpart of OptionalString.
type OptionalInt struct {
	Set bool
	null.Int
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	return o.Int.UnmarshalJSON(data)
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Int)
}

func (o OptionalInt) Cleared() bool {
	return o.Set && !o.Valid
}

func NewOptionalInt(i int) OptionalInt {
	return OptionalInt{Set: true, Int: null.IntFrom(i)}
}
