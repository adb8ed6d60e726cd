package domain

import apperrors "github.com/louisbranch/rumormill/internal/platform/errors"

var (
	// ErrEmptyTemplateID indicates a template without an identifier.
	ErrEmptyTemplateID = apperrors.New(apperrors.CodeTemplateIDEmpty, "template id is required")
	// ErrEmptyTemplateText indicates a template with no body text.
	ErrEmptyTemplateText = apperrors.New(apperrors.CodeTemplateTextEmpty, "template text is required")
	// ErrEmptyPool indicates an authored pool with no candidate values.
	ErrEmptyPool = apperrors.New(apperrors.CodePoolEmpty, "variable pool has no values")
	// ErrInvalidStatusTransition indicates a hop against a terminal instance.
	ErrInvalidStatusTransition = apperrors.New(apperrors.CodeInstanceInvalidStatusTransition, "instance status transition is not allowed")
)
