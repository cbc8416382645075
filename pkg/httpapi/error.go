package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

// ErrorEnvelope standardizes JSON error responses.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// DataEnvelope wraps every successful read.
type DataEnvelope[T any] struct {
	Data T `json:"data"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteData[T any](w http.ResponseWriter, status int, data T) error {
	return WriteJSON(w, status, DataEnvelope[T]{Data: data})
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteServiceError renders err with the status and code of its serrors kind.
// Unclassified errors become a 500 without leaking their text.
func WriteServiceError(w http.ResponseWriter, requestID string, err error) error {
	meta := map[string]string{}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	var svcErr *serrors.Error
	if errors.As(err, &svcErr) {
		return WriteError(w, svcErr.HTTPStatus(), svcErr.Code, svcErr.Message, meta)
	}
	return WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", meta)
}

// DecodeJSON decodes a single JSON document, rejecting unknown fields.
func DecodeJSON(body io.ReadCloser, out any) error {
	defer func() { _ = body.Close() }()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}
