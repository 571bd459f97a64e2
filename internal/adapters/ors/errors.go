package ors

import (
	"encoding/json"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// errorMessageExpr picks the human-readable message out of the provider's error
// payloads, which come as {"error":{"code":..,"message":".."}},
// {"error":".."} or {"message":".."} depending on the failing layer.
const errorMessageExpr = "error.message || message || error"

// providerErrorMessage extracts the provider's error message from body, or
// returns "" when the body carries none.
func providerErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return ""
	}
	v, err := jmespath.Search(errorMessageExpr, data)
	if err != nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
