package model

import "errors"

// Errors returned by the core stores. All of them are recoverable: the attempted
// mutation is not applied and state is left unchanged.
var (
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrNotAuthorized           = errors.New("not authorized")
	ErrEmptyMessage            = errors.New("message text is empty")
	ErrMessageNotFound         = errors.New("message not found")
	ErrInvalidStatusRegression = errors.New("delivery status cannot move backwards")

	ErrRequestNotFound      = errors.New("request not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrDuplicateRequest     = errors.New("a pending request to this counterpart already exists")
	ErrUnknownField         = errors.New("unknown field")
	ErrNotEditing           = errors.New("profile is not being edited")
	ErrNotFound             = errors.New("not found")
	ErrEmptyReaction        = errors.New("reaction emoji is empty")
	ErrInvalidStatus        = errors.New("unknown delivery status")
)
