package analysis

import "strings"

// SystemPrompt is sent as the system message of every analysis request.
const SystemPrompt = "You are a conversation analyst."

// Keys lists the fields every stored analysis object carries, in prompt order.
var Keys = []string{
	"speakerRoles",
	"talkRatio",
	"questionsAsked",
	"objectionsRaised",
	"sentiment",
	"summary",
	"entities",
}

const promptHeader = `
You are a conversation analyzer. Analyze the transcript and extract:
- Speaker roles (rep vs customer, or narrator, etc.)
- Talk ratio
- Number of questions asked
- Number of objections raised
- Sentiment per section (list each section/sentence and its sentiment: POSITIVE, NEGATIVE, NEUTRAL)
- Summary
- Key entities (products, organizations, people)

Respond ONLY with a valid JSON object with these keys:
speakerRoles, talkRatio, questionsAsked, objectionsRaised, sentiment, summary, entities.

If a key is not applicable, set its value to null or an empty object, but always include all keys.

Do not include any explanation, markdown, or code block. Only output the JSON object.

Transcript:
"""
`

// BuildPrompt embeds transcript verbatim in the analysis instructions.
func BuildPrompt(transcript string) string {
	var b strings.Builder
	b.Grow(len(promptHeader) + len(transcript) + 8)
	b.WriteString(promptHeader)
	b.WriteString(transcript)
	b.WriteString("\n\"\"\"\n")
	return b.String()
}
