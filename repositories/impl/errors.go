package impl

import (
	"PinguinGuard/models"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// translateError maps gorm errors onto the engine's error taxonomy. Anything
// that is not a missing row is treated as the backend being unavailable.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, models.ErrStoreUnavailable, err)
}
