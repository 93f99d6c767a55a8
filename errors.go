package caseclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingPrimaryContact is returned when applicant persons were
	// supplied but none is flagged as the case's primary contact.
	ErrMissingPrimaryContact = errors.New("no applicant person is flagged as the primary contact")

	// ErrMissingCasePK is returned when the case-create response did not
	// contain a CasePK.
	ErrMissingCasePK = errors.New("case response did not contain a CasePK")
)

// AuthError reports a failed client-credentials exchange, carrying the
// upstream status code where one arrived.
type AuthError struct {
	Status int
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed with status %d (%s)", e.Status, e.Reason)
}

// InvalidApplicantError identifies an applicant-list element that is neither
// a person nor a company record.
type InvalidApplicantError struct {
	Index int
	Value any
}

func (e *InvalidApplicantError) Error() string {
	return fmt.Sprintf("applicant at index %d is not a person or company record (got %T)", e.Index, e.Value)
}

// UploadCorrelationError reports an upload response whose key set does not
// match the uploaded file indexes. Treated as fatal: a silent mismatch would
// misattribute documents to the wrong party.
type UploadCorrelationError struct {
	Missing []string
	Extra   []string
}

func (e *UploadCorrelationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing keys %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, fmt.Sprintf("unexpected keys %s", strings.Join(e.Extra, ", ")))
	}
	return "upload response does not correlate with uploaded files: " + strings.Join(parts, "; ")
}
