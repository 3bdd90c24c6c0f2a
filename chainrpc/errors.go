package chainrpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrAccountNotFound is returned when the node reports the account does
	// not exist.
	ErrAccountNotFound = errors.New("account not found")
	// ErrMalformedAccount is returned for responses that decode but carry no
	// usable authority data.
	ErrMalformedAccount = errors.New("malformed account response")
)

// APIError is the error body returned by EOSIO chain API nodes.
type APIError struct {
	StatusCode int          `json:"-"`
	Code       int          `json:"code"`
	Message    string       `json:"message"`
	Detail     APIErrorBody `json:"error"`
}

// APIErrorBody is the nested "error" object of an APIError.
type APIErrorBody struct {
	Code    int              `json:"code"`
	Name    string           `json:"name"`
	What    string           `json:"what"`
	Details []APIErrorDetail `json:"details"`
}

// APIErrorDetail is a single entry of APIErrorBody.Details.
type APIErrorDetail struct {
	Message    string `json:"message"`
	File       string `json:"file"`
	LineNumber int    `json:"line_number"`
	Method     string `json:"method"`
}

// Error satisfies the error interface.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail.What != "" {
		return fmt.Sprintf("chain api: %s (%d %s)", e.Detail.What, e.StatusCode, e.Detail.Name)
	}
	return fmt.Sprintf("chain api: %s (%d)", e.Message, e.StatusCode)
}

// Is reports unknown-account errors as ErrAccountNotFound.
func (e *APIError) Is(target error) bool {
	if target != ErrAccountNotFound {
		return false
	}
	return strings.Contains(e.Detail.What, "unknown key") ||
		e.Detail.Name == "account_query_exception" ||
		e.Detail.Name == "unknown_account_exception"
}

// decodeAPIError converts a non-2xx response into an APIError.
func decodeAPIError(resp *http.Response, limit int64) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if len(body) == 0 {
		apiErr.Message = resp.Status
		return apiErr
	}
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}
