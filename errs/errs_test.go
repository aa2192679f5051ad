package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApiErr_MatchesSentinelAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewUploadFailedError(cause)

	assert.True(t, IsUploadFailed(err))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsTransport(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, http.StatusBadGateway, err.StatusCode)
	assert.Equal(t, "upload failed -> connection reset", err.GetFullError())
}

func TestFileTooLarge_IsValidation(t *testing.T) {
	err := fmt.Errorf("upload: %w", NewFileTooLargeError(11<<20, 10<<20))

	assert.True(t, IsFileTooLarge(err))
	assert.True(t, IsValidation(err))
	assert.False(t, IsTransport(err))
}

func TestNewDatabaseError(t *testing.T) {
	notFound := NewDatabaseError("find", "project", fmt.Errorf("doc x: %w", ErrNotFound))
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.True(t, IsNotFound(notFound))

	generic := NewDatabaseError("find", "project", errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, generic.StatusCode)
	assert.True(t, IsTransport(generic))

	existing := NewNotFound("image")
	assert.Same(t, existing, NewDatabaseError("delete", "image", existing))
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "project not found", NewNotFound("project").Error())
	assert.True(t, IsNotFound(NewNotFoundError("no such page")))
}
