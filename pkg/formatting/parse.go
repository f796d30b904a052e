// Package formatting provides parsing and human-readable formatting
// helpers shared across Veracity: JSON extraction from model responses and
// byte-size conversion.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be interpreted as JSON,
// either directly or inside a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var fenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ParseJSON unmarshals content into T. Language models often wrap their
// JSON in a markdown fence; when direct parsing fails the fenced body is
// extracted and retried before giving up with ErrParseFailed.
func ParseJSON[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	if m := fenceRegex.FindStringSubmatch(content); len(m) == 2 {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("%w: %.200s", ErrParseFailed, content)
}
