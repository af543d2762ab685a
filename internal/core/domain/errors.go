package domain

import (
	"errors"
	"fmt"
)

// ValidationReason identifies which field failed a format check.
type ValidationReason string

const (
	ReasonEmailFormat ValidationReason = "email_format"
	ReasonPhoneFormat ValidationReason = "phone_format"
	ReasonRole        ValidationReason = "role"
	ReasonItemFields  ValidationReason = "item_fields"
	ReasonImage       ValidationReason = "image"
)

// ValidationError is returned when input does not satisfy a format rule.
type ValidationError struct {
	Reason ValidationReason
	Value  string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmailFormat:
		return fmt.Sprintf("invalid email format: %q", e.Value)
	case ReasonPhoneFormat:
		return fmt.Sprintf("invalid phone format: %q", e.Value)
	case ReasonRole:
		return fmt.Sprintf("invalid role: %q", e.Value)
	}
	if e.Value != "" {
		return fmt.Sprintf("validation failed (%s): %s", e.Reason, e.Value)
	}
	return fmt.Sprintf("validation failed (%s)", e.Reason)
}

// Is matches any ValidationError with the same reason, so wrapped values
// carrying the offending input still satisfy errors.Is against the sentinels.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Reason == e.Reason
}

// ConflictReason identifies the uniqueness or exclusivity rule that was violated.
type ConflictReason string

const (
	ReasonEmailAlreadyTaken  ConflictReason = "email_already_taken"
	ReasonCheckoutInProgress ConflictReason = "checkout_in_progress"
)

type ConflictError struct {
	Reason ConflictReason
	Value  string
}

func (e *ConflictError) Error() string {
	switch e.Reason {
	case ReasonEmailAlreadyTaken:
		return fmt.Sprintf("email already taken: %q", e.Value)
	case ReasonCheckoutInProgress:
		return "checkout already in progress"
	}
	return fmt.Sprintf("conflict (%s)", e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	t, ok := target.(*ConflictError)
	return ok && t.Reason == e.Reason
}

// Resource names the entity a NotFoundError refers to.
type Resource string

const (
	ResourceAccount Resource = "account"
	ResourceOrder   Resource = "order"
	ResourceItem    Resource = "item"
	ResourceImage   Resource = "image"
)

type NotFoundError struct {
	Resource Resource
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && t.Resource == e.Resource
}

// StateReason identifies why an operation cannot proceed with the current data.
type StateReason string

const (
	ReasonEmptyCart              StateReason = "empty_cart"
	ReasonMalformedLineItemField StateReason = "malformed_line_item_field"
	ReasonInvalidQuantity        StateReason = "invalid_quantity"
	ReasonItemUnavailable        StateReason = "item_unavailable"
)

type StateError struct {
	Reason StateReason
	Detail string
}

func (e *StateError) Error() string {
	msg := string(e.Reason)
	switch e.Reason {
	case ReasonEmptyCart:
		msg = "cart is empty"
	case ReasonMalformedLineItemField:
		msg = "malformed line item field"
	case ReasonInvalidQuantity:
		msg = "quantity must be at least 1"
	case ReasonItemUnavailable:
		msg = "item is not available"
	}
	if e.Detail != "" {
		return msg + ": " + e.Detail
	}
	return msg
}

func (e *StateError) Is(target error) bool {
	t, ok := target.(*StateError)
	return ok && t.Reason == e.Reason
}

var (
	ErrInvalidEmailFormat = &ValidationError{Reason: ReasonEmailFormat}
	ErrInvalidPhoneFormat = &ValidationError{Reason: ReasonPhoneFormat}
	ErrInvalidRole        = &ValidationError{Reason: ReasonRole}
	ErrInvalidItem        = &ValidationError{Reason: ReasonItemFields}
	ErrInvalidImage       = &ValidationError{Reason: ReasonImage}

	ErrEmailAlreadyTaken  = &ConflictError{Reason: ReasonEmailAlreadyTaken}
	ErrCheckoutInProgress = &ConflictError{Reason: ReasonCheckoutInProgress}

	ErrAccountNotFound = &NotFoundError{Resource: ResourceAccount}
	ErrOrderNotFound   = &NotFoundError{Resource: ResourceOrder}
	ErrItemNotFound    = &NotFoundError{Resource: ResourceItem}
	ErrImageNotFound   = &NotFoundError{Resource: ResourceImage}

	ErrEmptyCart              = &StateError{Reason: ReasonEmptyCart}
	ErrMalformedLineItemField = &StateError{Reason: ReasonMalformedLineItemField}
	ErrInvalidQuantity        = &StateError{Reason: ReasonInvalidQuantity}
	ErrItemUnavailable        = &StateError{Reason: ReasonItemUnavailable}
)

// Authentication failures sit outside the taxonomy above; they never reach
// the order or account invariants.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

// AccountNotFound builds a NotFoundError carrying the looked-up id.
func AccountNotFound(id int64) error {
	return &NotFoundError{Resource: ResourceAccount, ID: fmt.Sprint(id)}
}

func OrderNotFound(id int64) error {
	return &NotFoundError{Resource: ResourceOrder, ID: fmt.Sprint(id)}
}

func ItemNotFound(id int64) error {
	return &NotFoundError{Resource: ResourceItem, ID: fmt.Sprint(id)}
}

func ImageNotFound(id string) error {
	return &NotFoundError{Resource: ResourceImage, ID: id}
}

// MalformedLineItems wraps a decode failure with the offending detail.
func MalformedLineItems(format string, args ...any) error {
	return &StateError{Reason: ReasonMalformedLineItemField, Detail: fmt.Sprintf(format, args...)}
}
