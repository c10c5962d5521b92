package fetch

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the envelope returned by both pipelines. Data is nil when the
// response carried no usable content.
type Response[T any] struct {
	Status     int    `json:"status" yaml:"status"`
	StatusText string `json:"statusText" yaml:"statusText"`
	Data       *T     `json:"data" yaml:"data"`
}

// FetchError is returned for any response status outside [200, 300).
type FetchError struct {
	Reason  string `json:"reason"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (e *FetchError) Error() string {
	if e.Message == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Message
}

func newFetchError(status int, statusText string) *FetchError {
	return &FetchError{
		Reason:  fmt.Sprintf("request failed with status %d", status),
		Status:  status,
		Message: statusText,
	}
}

// ValidateStatus reports whether status is a success code.
func ValidateStatus(status int) bool {
	return status >= 200 && status < 300
}

// noContent covers statuses whose body is ignored.
func noContent(status int) bool {
	return status == http.StatusNoContent || status == http.StatusNotModified
}

// decodeJSON returns nil when body is not valid JSON for T.
func decodeJSON[T any](body []byte) *T {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil
	}
	return &v
}
