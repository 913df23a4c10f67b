package edifact

import "fmt"

// The codec reports failures through typed errors so callers can branch
// with errors.As and map each kind to its own transport response.

// MissingFieldError reports an order that cannot be encoded because a
// required field is empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("edifact: order missing required field %s", e.Field)
}

// OversizedInputError reports raw input rejected before parsing because it
// exceeds the configured size ceiling.
type OversizedInputError struct {
	Size  int
	Limit int
}

func (e *OversizedInputError) Error() string {
	return fmt.Sprintf("edifact: input size %d bytes exceeds the configured maximum of %d bytes", e.Size, e.Limit)
}

// StructuralViolationError reports a message whose segments break the
// grammar. Violations carries every finding keyed by segment tag.
type StructuralViolationError struct {
	Violations ValidationErrors
}

func (e *StructuralViolationError) Error() string {
	return fmt.Sprintf("edifact: message violates the ORDERS structure in %d categories", len(e.Violations))
}

// SemanticError reports a structurally valid message whose content cannot
// be turned into an order. Segment names the offending tag and may be empty
// for message-level findings such as a missing party.
type SemanticError struct {
	Segment string
	Reason  string
}

func (e *SemanticError) Error() string {
	if e.Segment == "" {
		return fmt.Sprintf("edifact: %s", e.Reason)
	}
	return fmt.Sprintf("edifact: %s segment: %s", e.Segment, e.Reason)
}
