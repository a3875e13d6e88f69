package errors

import (
	"fmt"
	"time"
)

// CodeIntelErrorType enumerates the kinds the parsing, search,
// refactoring and orchestration layers report at their boundary. Every
// fallible operation in those layers returns a *CodeIntelError rather than
// terminating - see spec section 7 of the design document.
type CodeIntelErrorType string

const (
	ErrUnsupportedLanguage     CodeIntelErrorType = "unsupported_language"
	ErrLanguageDetectionFailed CodeIntelErrorType = "language_detection_failed"
	ErrParseFailed             CodeIntelErrorType = "parse_failed"
	ErrInvalidRange            CodeIntelErrorType = "invalid_range"
	ErrInvalidQuery            CodeIntelErrorType = "invalid_query"
	ErrFileReadFailed          CodeIntelErrorType = "file_read_failed"
	ErrFileWriteFailed         CodeIntelErrorType = "file_write_failed"
	ErrFileTooLarge            CodeIntelErrorType = "file_too_large"
	ErrPermissionDenied        CodeIntelErrorType = "permission_denied"
	ErrCacheUnavailable        CodeIntelErrorType = "cache_unavailable"
	ErrTimeout                 CodeIntelErrorType = "timeout"
	ErrCancelled               CodeIntelErrorType = "cancelled"
	ErrConflictDetected        CodeIntelErrorType = "conflict_detected"
	// ErrRollbackFailed is fatal: it means a refactor rollback itself could
	// not complete and the workspace may be left in an inconsistent state.
	// Callers must log it with full context, never swallow it.
	ErrRollbackFailed CodeIntelErrorType = "rollback_failed"
)

// CodeIntelError is the single tagged error value returned across the
// parsing/search/refactor/orchestrator boundary. Kind is the stable,
// machine-readable discriminant; Message is suitable for direct display.
type CodeIntelError struct {
	Kind       CodeIntelErrorType
	Message    string
	Underlying error
	Timestamp  time.Time
}

func NewCodeIntelError(kind CodeIntelErrorType, message string, underlying error) *CodeIntelError {
	return &CodeIntelError{
		Kind:       kind,
		Message:    message,
		Underlying: underlying,
		Timestamp:  time.Now(),
	}
}

func (e *CodeIntelError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CodeIntelError) Unwrap() error {
	return e.Underlying
}

// Is lets errors.Is match on Kind alone, so callers can write
// errors.Is(err, &CodeIntelError{Kind: ErrTimeout}) without constructing the
// full value.
func (e *CodeIntelError) Is(target error) bool {
	t, ok := target.(*CodeIntelError)
	if !ok {
		return false
	}
	if t.Kind == "" {
		return false
	}
	return e.Kind == t.Kind
}
