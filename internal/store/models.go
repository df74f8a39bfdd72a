package store

import "time"

// Conversation is one uploaded audio file and its derived artifacts.
type Conversation struct {
	ID        int64
	AudioPath string
	// TranscriptText is empty until the audio has been transcribed.
	TranscriptText string
	// AnalysisJSON holds the serialized analysis object, empty until analyzed.
	AnalysisJSON string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasTranscript reports whether transcript text is present.
func (c *Conversation) HasTranscript() bool {
	return c != nil && c.TranscriptText != ""
}

// HasAnalysis reports whether an analysis object is present.
func (c *Conversation) HasAnalysis() bool {
	return c != nil && c.AnalysisJSON != ""
}

// NewConversation carries the fields supplied at record creation.
type NewConversation struct {
	AudioPath string
}

// Patch describes a partial update; nil fields are left unchanged.
type Patch struct {
	TranscriptText *string
	AnalysisJSON   *string
}

func (p Patch) empty() bool {
	return p.TranscriptText == nil && p.AnalysisJSON == nil
}
