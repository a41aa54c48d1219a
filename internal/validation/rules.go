// Package validation provides the jellydator/validation rules shared by the
// booking, room and payment use cases.
package validation

import (
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/giangnd99/hotel-management-sub003/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotNilUUID validates that a uuid.UUID is set
var NotNilUUID = validation.By(func(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok {
		return validation.NewError("validation_uuid_type", "must be a uuid")
	}
	if id == uuid.Nil {
		return validation.NewError("validation_uuid_required", "must be a non-nil uuid")
	}
	return nil
})

// UniqueUUIDs validates that a []uuid.UUID holds no nil or repeated entries
var UniqueUUIDs = validation.By(func(value interface{}) error {
	ids, ok := value.([]uuid.UUID)
	if !ok {
		return validation.NewError("validation_uuids_type", "must be a list of uuids")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			return validation.NewError("validation_uuids_nil", "must not contain nil uuids")
		}
		if _, dup := seen[id]; dup {
			return validation.NewError("validation_uuids_unique", "must not contain duplicates")
		}
		seen[id] = struct{}{}
	}
	return nil
})

// PositiveAmount validates that a minor-unit money amount is greater than zero
var PositiveAmount = validation.By(func(value interface{}) error {
	amount, ok := value.(int64)
	if !ok {
		return validation.NewError("validation_amount_type", "must be an int64 amount")
	}
	if amount <= 0 {
		return validation.NewError("validation_amount_positive", "must be greater than zero")
	}
	return nil
})

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
