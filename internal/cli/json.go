package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rileyhilliard/jtop/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound        = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid         = "CONFIG_INVALID"
	ErrCodeTegrastatsUnavailable = "TEGRASTATS_UNAVAILABLE"
	ErrCodeTegrastatsExited      = "TEGRASTATS_EXITED"
	ErrCodeNoTerminal            = "NO_TERMINAL"
	ErrCodeUnknown               = "UNKNOWN"
)

// writeJSONLine writes a successful envelope on a single line, so a stream
// of samples stays one object per line.
func writeJSONLine(w io.Writer, data interface{}) error {
	return json.NewEncoder(w).Encode(JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return json.NewEncoder(w).Encode(JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var coded *errors.Error
	if errors.As(err, &coded) {
		return &JSONError{
			Code:       mapErrorCode(coded.Code, coded.Message),
			Message:    coded.Message,
			Suggestion: coded.Suggestion,
		}
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	switch internalCode {
	case errors.ErrConfig:
		if strings.Contains(strings.ToLower(message), "not found") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrProcess:
		return ErrCodeTegrastatsUnavailable
	case errors.ErrExited:
		return ErrCodeTegrastatsExited
	case errors.ErrTerminal:
		return ErrCodeNoTerminal
	}
	return ErrCodeUnknown
}
