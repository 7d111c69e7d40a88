package types

import "encoding/json"

// Field is a JSON value that remembers whether it was present in the
// payload. A present JSON null sets Set and leaves Value at its zero value,
// so Field[*T] distinguishes "absent", "null" and "value".
type Field[T any] struct {
	Set   bool
	Value T
}

// Some returns a present field holding v.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON encodes the value regardless of presence.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}
