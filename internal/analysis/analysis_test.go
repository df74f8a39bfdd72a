package analysis_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"voiceapp/internal/analysis"
)

func TestBuildPromptEmbedsTranscriptVerbatim(t *testing.T) {
	transcript := "Rep: Hi!\nCustomer: \"Too expensive.\""
	prompt := analysis.BuildPrompt(transcript)

	if !strings.Contains(prompt, "Transcript:\n\"\"\"\n"+transcript+"\n\"\"\"") {
		t.Fatalf("transcript not embedded verbatim: %q", prompt)
	}
	if !strings.Contains(prompt, "speakerRoles, talkRatio, questionsAsked, objectionsRaised, sentiment, summary, entities.") {
		t.Fatal("prompt missing key list")
	}
	if !strings.Contains(prompt, "Only output the JSON object.") {
		t.Fatal("prompt missing output restriction")
	}
}

func TestParseValidObject(t *testing.T) {
	raw := `{"speakerRoles":{"A":"rep"},"talkRatio":{"A":60,"B":40},"questionsAsked":3,"objectionsRaised":1,` +
		`"sentiment":[{"section":"intro","sentiment":"POSITIVE"}],"summary":"Call about pricing.","entities":[]}`
	res := analysis.Parse(raw)
	if res.Fallback {
		t.Fatal("did not expect fallback")
	}

	var want, got map[string]any
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatalf("unmarshal want: %v", err)
	}
	if err := json.Unmarshal([]byte(res.String()), &got); err != nil {
		t.Fatalf("unmarshal got: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("stored object differs:\nwant %v\ngot  %v", want, got)
	}
}

func TestParseFillsMissingKeysWithNull(t *testing.T) {
	res := analysis.Parse(`{"summary":"short"}`)
	if res.Fallback {
		t.Fatal("did not expect fallback")
	}
	for _, key := range analysis.Keys {
		value, ok := res.Fields[key]
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if key != "summary" && string(value) != "null" {
			t.Fatalf("expected null for %s, got %s", key, value)
		}
	}
}

func TestParseStripsCodeFences(t *testing.T) {
	cases := []string{
		"```json\n{\"summary\":\"fenced\"}\n```",
		"```\n{\"summary\":\"fenced\"}\n```",
		"  {\"summary\":\"fenced\"}```  ",
	}
	for _, raw := range cases {
		res := analysis.Parse(raw)
		if res.Fallback {
			t.Fatalf("unexpected fallback for %q", raw)
		}
		if string(res.Fields["summary"]) != `"fenced"` {
			t.Fatalf("unexpected summary for %q: %s", raw, res.Fields["summary"])
		}
	}
}

func TestParseFallbackForProse(t *testing.T) {
	res := analysis.Parse("Hello, this is a summary.")
	if !res.Fallback {
		t.Fatal("expected fallback")
	}
	if got := res.String(); got != `{"summary":"Hello, this is a summary."}` {
		t.Fatalf("unexpected fallback object %s", got)
	}
}

func TestParseFallbackForNonObjectJSON(t *testing.T) {
	for _, raw := range []string{`[1,2,3]`, `"just text"`, `42`, `null`, `{"summary":"x"} trailing`} {
		res := analysis.Parse(raw)
		if !res.Fallback {
			t.Fatalf("expected fallback for %q", raw)
		}
		if len(res.Fields) != 1 {
			t.Fatalf("expected only summary for %q, got %v", raw, res.Fields)
		}
	}
}

func TestParseFallbackUsesCleanedText(t *testing.T) {
	res := analysis.Parse("```\nnot json\n```")
	if got := string(res.Fields["summary"]); got != `"not json"` {
		t.Fatalf("expected fences removed from summary, got %s", got)
	}
}

func TestDecodeStoredObject(t *testing.T) {
	res, err := analysis.Decode(`{"summary":"x","entities":[{"type":"ORG","text":"Acme"}]}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(res.Fields["summary"]) != `"x"` {
		t.Fatalf("unexpected summary %s", res.Fields["summary"])
	}
	if _, err := analysis.Decode("not json"); err == nil {
		t.Fatal("expected error for invalid stored analysis")
	}
}
