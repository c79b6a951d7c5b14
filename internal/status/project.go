package status

import (
	"errors"

	"github.com/circdesk/circdesk/internal/batch"
	"github.com/circdesk/circdesk/internal/desk"
	"github.com/circdesk/circdesk/internal/library"
)

const (
	// StructuralMessage is shown when a reply cannot be matched to its request.
	StructuralMessage = "Unexpected response from server; nothing was changed locally"
	// GenericMessage is shown for failures that carry no operator-facing text.
	GenericMessage = library.GenericFailure
)

// Project maps any error to the text shown in a status line.
func Project(err error) string {
	if err == nil {
		return ""
	}
	var validation *desk.ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	var batchErr *batch.Error
	if errors.As(err, &batchErr) && batchErr.Kind == batch.Structural {
		return StructuralMessage
	}
	if errors.Is(err, batch.ErrCountMismatch) {
		return StructuralMessage
	}
	if errors.Is(err, batch.ErrEmpty) {
		return "Nothing selected"
	}
	var opErr *library.OperationError
	if errors.As(err, &opErr) {
		if opErr.Message == "" {
			return GenericMessage
		}
		return opErr.Message
	}
	return GenericMessage
}
