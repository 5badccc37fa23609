package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryAndSeverity(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		wantCategory Category
		wantSeverity Severity
	}{
		{"config is fatal", ErrCodeConfigInvalid, CategoryConfig, SeverityFatal},
		{"file access is IO", ErrCodeFileAccess, CategoryIO, SeverityError},
		{"timeout is IO", ErrCodeTimeout, CategoryIO, SeverityError},
		{"memory limit is IO", ErrCodeMemoryLimit, CategoryIO, SeverityError},
		{"cache is warning", ErrCodeCache, CategoryCache, SeverityWarning},
		{"path validation", ErrCodeInvalidPath, CategoryValidation, SeverityError},
		{"worker is internal", ErrCodeWorker, CategoryInternal, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "boom", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
			assert.Equal(t, tt.wantSeverity, err.Severity)
		})
	}
}

func TestDocError_ErrorFormat(t *testing.T) {
	err := New(ErrCodeTimeout, "processing exceeded deadline (180s)", nil)
	assert.Equal(t, "[ERR_212_TIMEOUT] processing exceeded deadline (180s)", err.Error())
}

func TestDocError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Wrap(ErrCodeFileAccess, cause)
	require.NotNil(t, err)
	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.True(t, stderrors.Is(err, cause))
}

func TestDocError_IsMatchesByCode(t *testing.T) {
	a := TimeoutError("/docs/a.docx", 180)
	b := TimeoutError("/docs/b.pdf", 600)
	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, New(ErrCodeCache, "x", nil)))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeCache, nil))
}

func TestWithDetail(t *testing.T) {
	err := FileAccessError("/docs/a.docx", nil)
	require.NotNil(t, err.Details)
	assert.Equal(t, "/docs/a.docx", err.Details["path"])
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeMemoryLimit, GetCode(MemoryLimitError("p", 2048)))
	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
}
