package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SentimentItem is one labelled sentiment entry.
type SentimentItem struct {
	Label string
	Value string
	// Class is positive, negative, neutral or other.
	Class string
}

// EntityItem is one extracted entity.
type EntityItem struct {
	Type string
	Text string
}

// AnalysisView is the template-ready form of a stored analysis object. Every
// field is optional; models return loosely shaped data.
type AnalysisView struct {
	Summary      string
	Sentiment    []SentimentItem
	Entities     []EntityItem
	SpeakerRoles string
	TalkRatio    string
	// Pretty is the whole object indented for the insights download.
	Pretty string
}

// BuildAnalysisView converts a stored analysis object. It returns nil for an
// empty input and an error only when raw is not a JSON object.
func BuildAnalysisView(raw string) (*AnalysisView, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	if fields == nil {
		return nil, nil
	}

	view := &AnalysisView{
		Summary:      stringValue(fields["summary"]),
		Sentiment:    sentimentItems(fields["sentiment"]),
		Entities:     entityItems(fields["entities"]),
		SpeakerRoles: prettyValue(fields["speakerRoles"]),
		TalkRatio:    prettyValue(fields["talkRatio"]),
		Pretty:       prettyValue(json.RawMessage(raw)),
	}
	return view, nil
}

func sentimentItems(raw json.RawMessage) []SentimentItem {
	switch firstByte(raw) {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil
		}
		items := make([]SentimentItem, 0, len(entries))
		for i, entry := range entries {
			fallback := fmt.Sprintf("Section %d", i+1)
			var obj map[string]json.RawMessage
			if firstByte(entry) != '{' || json.Unmarshal(entry, &obj) != nil {
				items = append(items, newSentimentItem(fallback, displayValue(entry)))
				continue
			}
			label := firstString(obj, "section", "sentence")
			if label == "" {
				label = fallback
			}
			items = append(items, newSentimentItem(label, displayValue(obj["sentiment"])))
		}
		return items
	case '{':
		entries, err := orderedEntries(raw)
		if err != nil {
			return nil
		}
		items := make([]SentimentItem, 0, len(entries))
		for _, entry := range entries {
			items = append(items, newSentimentItem(titleLabel(entry.key), displayValue(entry.value)))
		}
		return items
	case '"':
		// A single overall sentiment.
		return []SentimentItem{newSentimentItem("Overall", stringValue(raw))}
	default:
		return nil
	}
}

func newSentimentItem(label, value string) SentimentItem {
	class := "other"
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "POSITIVE":
		class = "positive"
	case "NEGATIVE":
		class = "negative"
	case "NEUTRAL":
		class = "neutral"
	}
	return SentimentItem{Label: label, Value: value, Class: class}
}

func entityItems(raw json.RawMessage) []EntityItem {
	if firstByte(raw) != '[' {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	items := make([]EntityItem, 0, len(entries))
	for _, entry := range entries {
		var obj map[string]json.RawMessage
		if firstByte(entry) != '{' || json.Unmarshal(entry, &obj) != nil {
			items = append(items, EntityItem{Type: "Entity", Text: displayValue(entry)})
			continue
		}
		kind := firstString(obj, "entity_type", "type")
		if kind == "" {
			kind = "Entity"
		}
		items = append(items, EntityItem{
			Type: titleLabel(kind),
			Text: firstString(obj, "text", "name", "value"),
		})
	}
	return items
}

type entry struct {
	key   string
	value json.RawMessage
}

// orderedEntries decodes a JSON object keeping the key order of the input.
func orderedEntries(raw json.RawMessage) ([]entry, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object")
	}
	var out []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		out = append(out, entry{key: key, value: value})
	}
	return out, nil
}

// titleLabel turns keys such as "opening_remarks" or "closing" into
// "Opening Remarks" and "Closing". A Caser is stateful, so each call gets its own.
func titleLabel(key string) string {
	key = strings.TrimSpace(strings.NewReplacer("_", " ", "-", " ").Replace(key))
	if key == "" {
		return key
	}
	return cases.Title(language.English).String(key)
}

func firstString(obj map[string]json.RawMessage, keys ...string) string {
	for _, key := range keys {
		if value := displayValue(obj[key]); value != "" {
			return value
		}
	}
	return ""
}

func stringValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return displayValue(raw)
}

// displayValue renders strings bare and anything else as compact JSON.
// null and absent values render as "".
func displayValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	var s string
	if json.Unmarshal(trimmed, &s) == nil {
		return s
	}
	var buf bytes.Buffer
	if json.Compact(&buf, trimmed) != nil {
		return string(trimmed)
	}
	return buf.String()
}

func prettyValue(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if json.Indent(&buf, trimmed, "", "  ") != nil {
		return string(trimmed)
	}
	return buf.String()
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
