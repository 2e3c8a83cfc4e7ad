package api

import (
	"encoding/json"
	"strings"
)

// ExtractReplyText returns the displayable reply text. The backend
// occasionally wraps the reply in a JSON envelope, sometimes prefixed
// with a stray "json" marker; in that case the nested "reply" field is
// what the user should see.
func ExtractReplyText(reply string) string {
	trimmed := strings.TrimSpace(reply)

	jsonString := trimmed
	if strings.HasPrefix(strings.ToLower(trimmed), "json") {
		jsonString = strings.TrimSpace(trimmed[4:])
	}

	if strings.HasPrefix(jsonString, "{") {
		var envelope struct {
			Reply string `json:"reply"`
		}
		if err := json.Unmarshal([]byte(jsonString), &envelope); err == nil && envelope.Reply != "" {
			return strings.TrimSpace(envelope.Reply)
		}
	}

	return trimmed
}
