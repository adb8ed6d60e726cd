// Package errors provides structured error handling for the rumor engine.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Template errors
	CodeTemplateIDEmpty            Code = "TEMPLATE_ID_EMPTY"
	CodeTemplateTextEmpty          Code = "TEMPLATE_TEXT_EMPTY"
	CodeTemplateInvalidTone        Code = "TEMPLATE_INVALID_TONE"
	CodeTemplateInvalidCategory    Code = "TEMPLATE_INVALID_CATEGORY"
	CodeTemplateInvalidSpreadRate  Code = "TEMPLATE_INVALID_SPREAD_RATE"
	CodeTemplateInvalidTruthValue  Code = "TEMPLATE_INVALID_TRUTH_VALUE"
	CodeTemplateUndeclaredVariable Code = "TEMPLATE_UNDECLARED_VARIABLE"

	// Pool errors
	CodePoolEmpty Code = "POOL_EMPTY"

	// Catalog errors
	CodeCatalogDuplicateTemplate Code = "CATALOG_DUPLICATE_TEMPLATE"
	CodeCatalogTemplateNotFound  Code = "CATALOG_TEMPLATE_NOT_FOUND"

	// Instance/propagation errors
	CodeInstanceInvalidStatusTransition Code = "INSTANCE_INVALID_STATUS_TRANSITION"
	CodeInstanceNotFound                Code = "INSTANCE_NOT_FOUND"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"

	// Filter errors
	CodeFilterInvalid Code = "FILTER_INVALID"

	// Random/seed errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"
)

// GRPCCode maps a domain error code to its gRPC status code.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeTemplateIDEmpty,
		CodeTemplateTextEmpty,
		CodeTemplateInvalidTone,
		CodeTemplateInvalidCategory,
		CodeTemplateInvalidSpreadRate,
		CodeTemplateInvalidTruthValue,
		CodeTemplateUndeclaredVariable,
		CodePoolEmpty,
		CodeFilterInvalid,
		CodeSeedOutOfRange:
		return codes.InvalidArgument
	case CodeCatalogDuplicateTemplate:
		return codes.AlreadyExists
	case CodeCatalogTemplateNotFound, CodeInstanceNotFound, CodeNotFound:
		return codes.NotFound
	case CodeInstanceInvalidStatusTransition:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
