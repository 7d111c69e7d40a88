package services

import (
	"strings"

	"github.com/trailtrack/apiserver/types"
)

// assign copies f into dst when the field was present in the payload.
func assign[T any](dst *T, f types.Field[T]) {
	if f.Set {
		*dst = f.Value
	}
}

// requireText fails unless f is present with non-blank text.
func requireText(field string, f types.Field[string]) error {
	if !f.Set || strings.TrimSpace(f.Value) == "" {
		return required(field)
	}
	return nil
}

// checkText fails when f is present but blank.
func checkText(field string, f types.Field[string]) error {
	if f.Set && strings.TrimSpace(f.Value) == "" {
		return notEmpty(field)
	}
	return nil
}
