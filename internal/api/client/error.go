package client

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dtroode/recipai/internal/model"
)

const maxErrorBody = 64 << 10

type errorPayload struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// decodeError turns a non-2xx response into a RemoteError. The reason is taken
// from the error field, then message, then code, then the status text.
func decodeError(resp *http.Response) *model.RemoteError {
	remote := &model.RemoteError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload errorPayload
	if len(raw) > 0 && json.Unmarshal(raw, &payload) == nil {
		remote.Code = payload.Code
		remote.Reason = firstNonEmpty(errorText(payload.Error), payload.Message, payload.Code)
	}

	if remote.Reason == "" {
		remote.Reason = http.StatusText(resp.StatusCode)
	}
	return remote
}

// errorText reads the error field, which servers send either as a string or
// as an object with a message.
func errorText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if json.Unmarshal(raw, &s) == nil {
		return strings.TrimSpace(s)
	}

	var obj struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return firstNonEmpty(obj.Message, obj.Code)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
