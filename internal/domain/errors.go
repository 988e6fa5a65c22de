package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrAccessDenied indicates the caller does not own the target resource.
	ErrAccessDenied = errors.New("access denied")
	// ErrValidation marks malformed or inconsistent caller input.
	ErrValidation = errors.New("validation")
)

// Validationf builds an error that unwraps to ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// PlacementCode classifies why an order placement was rejected.
type PlacementCode string

const (
	PlacementEmptyCart       PlacementCode = "EmptyCart"
	PlacementShopClosed      PlacementCode = "ShopClosed"
	PlacementItemUnavailable PlacementCode = "ItemUnavailable"
	PlacementInvalidVariant  PlacementCode = "InvalidVariant"
	PlacementInvalidAddOn    PlacementCode = "InvalidAddOn"
	PlacementPriceMissing    PlacementCode = "PriceMissing"
)

// PlacementError aborts an entire order placement; nothing partial is written
// when one is returned.
type PlacementError struct {
	Code   PlacementCode
	Detail string
}

func (e *PlacementError) Error() string {
	if e.Detail == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// NewPlacementError builds a PlacementError with a formatted detail message.
func NewPlacementError(code PlacementCode, format string, args ...interface{}) *PlacementError {
	return &PlacementError{Code: code, Detail: fmt.Sprintf(format, args...)}
}
