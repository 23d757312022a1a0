package frappe

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/erp/ticketing/internal/domain/shared"
)

// RemoteError is an error response of the site
type RemoteError struct {
	StatusCode int
	ExcType    string
	Messages   []string
}

func (e *RemoteError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.ExcType != "" {
		return fmt.Sprintf("frappe: %s: %s", e.ExcType, msg)
	}
	return fmt.Sprintf("frappe: HTTP %d: %s", e.StatusCode, msg)
}

// Is matches shared.ErrNotFound for missing documents
func (e *RemoteError) Is(target error) bool {
	return target == shared.ErrNotFound &&
		(e.StatusCode == http.StatusNotFound || e.ExcType == "DoesNotExistError")
}

type errorBody struct {
	ExcType        string `json:"exc_type"`
	ServerMessages string `json:"_server_messages"`
	Message        any    `json:"message"`
	Exception      string `json:"exception"`
}

// parseRemoteError decodes exc_type and the doubly encoded _server_messages list
func parseRemoteError(status int, body []byte) *RemoteError {
	rerr := &RemoteError{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
			rerr.Messages = []string{text}
		}
		return rerr
	}
	rerr.ExcType = eb.ExcType
	rerr.Messages = serverMessages(eb.ServerMessages)

	if len(rerr.Messages) == 0 {
		if s, ok := eb.Message.(string); ok && s != "" {
			rerr.Messages = []string{s}
		} else if eb.Exception != "" {
			rerr.Messages = []string{eb.Exception}
		}
	}
	return rerr
}

func serverMessages(raw string) []string {
	if raw == "" {
		return nil
	}
	var encoded []string
	if err := json.Unmarshal([]byte(raw), &encoded); err != nil {
		return []string{raw}
	}

	messages := make([]string, 0, len(encoded))
	for _, item := range encoded {
		var m struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(item), &m); err == nil && m.Message != "" {
			messages = append(messages, m.Message)
			continue
		}
		messages = append(messages, item)
	}
	return messages
}
