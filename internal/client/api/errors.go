package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/common"
)

type Kind int

const (
	KindNetwork Kind = iota + 1
	KindUnauthorized
	KindValidation
	KindServer
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

const (
	msgUnreachable    = "cannot reach server"
	msgSessionExpired = "session expired"
)

// APIError is the single error shape callers of Client see.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
	// Detail is the raw "detail" member of the error body, if any.
	Detail json.RawMessage
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("api %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("api %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() []error {
	errs := make([]error, 0, 3)
	switch e.Kind {
	case KindNetwork:
		errs = append(errs, common.ErrUnavailable)
	case KindUnauthorized:
		errs = append(errs, common.ErrUnauthorized)
	case KindValidation:
		errs = append(errs, common.ErrValidation)
		if e.Status == http.StatusNotFound {
			errs = append(errs, common.ErrNotFound)
		}
	case KindServer:
		errs = append(errs, common.ErrServer)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// BackendMessage returns the message the backend supplied, or "" when the
// message is a local fallback.
func (e *APIError) BackendMessage() string {
	if len(e.Detail) == 0 {
		return ""
	}
	return e.Message
}

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type validationItem struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// fromResponse builds an APIError from a non-2xx response. The body is
// consumed but not closed.
func fromResponse(resp *http.Response) *APIError {
	e := &APIError{Status: resp.StatusCode}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		e.Kind = KindUnauthorized
	case resp.StatusCode >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindValidation
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if len(body.Detail) > 0 && string(body.Detail) != "null" {
			e.Detail = body.Detail
			e.Message = detailMessage(body.Detail)
		} else if body.Message != "" {
			e.Detail = json.RawMessage(raw)
			e.Message = body.Message
		}
	}

	if e.Message == "" {
		e.Message = fallbackMessage(resp.StatusCode)
	}
	return e
}

// detailMessage flattens the backend "detail" member: a plain string, a list
// of validation items, or anything else kept as raw JSON.
func detailMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var items []validationItem
	if err := json.Unmarshal(raw, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}

	return string(raw)
}

func fallbackMessage(status int) string {
	if status == http.StatusUnauthorized {
		return msgSessionExpired
	}
	if text := http.StatusText(status); text != "" {
		return strings.ToLower(text)
	}
	return fmt.Sprintf("unexpected status %d", status)
}

func networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Message: msgUnreachable, Err: err}
}

func decodeError(status int, err error) *APIError {
	return &APIError{Kind: KindDecode, Status: status, Message: "malformed response body", Err: err}
}
