package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Upload & Object Storage Errors
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrUploadFailed     = errors.New("upload failed")
	ErrInvalidObjectURL = errors.New("invalid object url")
)

// Configuration & Environment Errors
var (
	ErrConfigMissing       = errors.New("configuration missing")
	ErrEnvironmentVariable = errors.New("environment variable error")
)

func NewFileTooLargeError(size, limit int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusRequestEntityTooLarge,
		err:        ErrFileTooLarge,
		Details:    fmt.Sprintf("File is %d bytes, the limit is %d bytes", size, limit),
		Field:      "file",
	}
}

// NewUploadFailedError wraps a storage transport failure. The upload is not
// retried.
func NewUploadFailedError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUploadFailed,
		Cause:      cause,
	}
}

func NewInvalidObjectURLError(url string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrInvalidObjectURL,
		Details:    fmt.Sprintf("%q does not point into the upload bucket", url),
		Field:      "url",
	}
}

// Configuration & Environment Error Constructors
func NewConfigError(configName string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrConfigMissing,
		Details:    fmt.Sprintf("Configuration error for %s", configName),
		Cause:      cause,
	}
}

func NewEnvironmentVariableError(varName string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrEnvironmentVariable,
		Details:    fmt.Sprintf("Environment variable %s is not set or invalid", varName),
		Field:      varName,
	}
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsUploadFailed(err error) bool {
	return errors.Is(err, ErrUploadFailed)
}

func IsInvalidObjectURL(err error) bool {
	return errors.Is(err, ErrInvalidObjectURL)
}

// IsTransport reports whether err came from a failed call to the document
// store or the object store.
func IsTransport(err error) bool {
	return IsUploadFailed(err) || IsPersistFailed(err) || errors.Is(err, ErrDatabaseQuery) || IsDatabaseConnection(err)
}
