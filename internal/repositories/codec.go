package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"staffing-system/pkg/kvstore"

	apperrors "staffing-system/pkg/errors"
)

type validatable interface {
	Validate() error
}

func encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// decode is the store boundary: a record that does not parse or validate is
// reported instead of being handed to the services half-read.
func decode(data []byte, v validatable) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("registro corrupto: %w", err)
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("registro no válido: %w", err)
	}
	return nil
}

func mapStoreError(err error, what string) error {
	if errors.Is(err, kvstore.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}
