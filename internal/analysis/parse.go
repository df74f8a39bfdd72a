package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("```(json)?")

// Result is a parsed analysis object ready to be stored or returned.
type Result struct {
	Fields map[string]json.RawMessage
	// Fallback is true when the reply was not a JSON object and Fields holds
	// only the cleaned reply under "summary".
	Fallback bool
}

// MarshalJSON encodes the analysis object.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Fields)
}

// String returns the serialized object.
func (r Result) String() string {
	data, err := r.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Clean removes every ``` and ```json marker and trims surrounding whitespace.
func Clean(raw string) string {
	return strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))
}

// Parse converts a model reply into an analysis object. It never fails: a
// reply that is not a JSON object yields {"summary": <cleaned reply>}.
func Parse(raw string) Result {
	content := Clean(raw)

	var fields map[string]json.RawMessage
	if err := decodeObject(content, &fields); err != nil || fields == nil {
		summary, _ := json.Marshal(content)
		return Result{Fields: map[string]json.RawMessage{"summary": summary}, Fallback: true}
	}
	for _, key := range Keys {
		if _, ok := fields[key]; !ok {
			fields[key] = json.RawMessage("null")
		}
	}
	return Result{Fields: fields}
}

// Decode reads a stored analysis object.
func Decode(stored string) (Result, error) {
	var fields map[string]json.RawMessage
	if err := decodeObject(stored, &fields); err != nil {
		return Result{}, fmt.Errorf("decode analysis: %w", err)
	}
	return Result{Fields: fields}, nil
}

func decodeObject(content string, target *map[string]json.RawMessage) error {
	return json.Unmarshal([]byte(content), target)
}
