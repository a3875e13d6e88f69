package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeIntelErrorFormatsUnderlying(t *testing.T) {
	underlying := stderrors.New("permission denied")
	err := NewCodeIntelError(ErrFileReadFailed, "/tmp/a.go", underlying)

	assert.Equal(t, "file_read_failed: /tmp/a.go: permission denied", err.Error())
	assert.Equal(t, underlying, err.Unwrap())
}

func TestCodeIntelErrorFormatsWithoutUnderlying(t *testing.T) {
	err := NewCodeIntelError(ErrLanguageDetectionFailed, "/tmp/a.xyz", nil)
	assert.Equal(t, "language_detection_failed: /tmp/a.xyz", err.Error())
}

func TestCodeIntelErrorIsMatchesByKindOnly(t *testing.T) {
	a := NewCodeIntelError(ErrTimeout, "query took too long", nil)
	b := &CodeIntelError{Kind: ErrTimeout}

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, &CodeIntelError{Kind: ErrCancelled}))
}
