package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"voiceapp/internal/store"
)

// View renders the current screen.
func (m Model) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("voiceapp")+dimStyle.Render(" · conversations"))
	sections = append(sections, m.divider())

	if m.mode == modeDetail && m.detail != nil {
		sections = append(sections, m.renderDetail())
	} else {
		sections = append(sections, m.renderList())
	}

	sections = append(sections, m.divider())
	if m.busy != "" {
		sections = append(sections, busyStyle.Render(m.busy))
	}
	if m.errorMessage != "" {
		sections = append(sections, errorStyle.Render("Error: ")+m.errorMessage)
	}
	sections = append(sections, m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) divider() string {
	width := m.width
	if width <= 0 {
		width = 60
	}
	return dividerStyle.Render(strings.Repeat("─", width))
}

func (m Model) renderList() string {
	if m.loading {
		return dimStyle.Render("Loading...")
	}
	if len(m.items) == 0 {
		return dimStyle.Render("No conversations found.")
	}
	lines := make([]string, 0, len(m.items))
	for i, conv := range m.items {
		status := conversationStatus(conv)
		line := fmt.Sprintf("%5d  %-19s  %-14s  %s",
			conv.ID,
			formatTimestamp(conv.CreatedAt),
			humanize.Time(conv.CreatedAt),
			statusStyles[status].Render(status),
		)
		if i == m.selected {
			lines = append(lines, selectedStyle.Render("> ")+selectedStyle.Render(line))
			continue
		}
		lines = append(lines, "  "+line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail() string {
	conv := m.detail
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", labelStyle.Render(fmt.Sprintf("Conversation #%d", conv.ID)))
	fmt.Fprintf(&b, "%s %s (%s)\n", dimStyle.Render("Uploaded:"), formatTimestamp(conv.CreatedAt), humanize.Time(conv.CreatedAt))
	fmt.Fprintf(&b, "%s %s\n\n", dimStyle.Render("Audio:"), conv.AudioPath)

	b.WriteString(labelStyle.Render("Transcript") + "\n")
	if conv.HasTranscript() {
		b.WriteString(transcriptStyle.Width(m.contentWidth()).Render(conv.TranscriptText))
		b.WriteString("\n")
	} else {
		b.WriteString(dimStyle.Render("  No transcript available.") + "\n")
	}
	b.WriteString("\n" + labelStyle.Render("AI Insights") + "\n")
	b.WriteString(m.renderAnalysis())

	lines := strings.Split(b.String(), "\n")
	start := min(m.scroll, max(0, len(lines)-1))
	visible := m.pageSize()
	end := min(len(lines), start+visible)
	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderAnalysis() string {
	view := m.analysis
	if view == nil {
		return dimStyle.Render("  No analysis available.") + "\n"
	}
	var b strings.Builder
	if view.Summary != "" {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("Summary:"), view.Summary)
	}
	b.WriteString("  " + labelStyle.Render("Sentiment by Section:") + "\n")
	if len(view.Sentiment) == 0 {
		b.WriteString(dimStyle.Render("    No sentiment detected.") + "\n")
	}
	for _, item := range view.Sentiment {
		style, ok := sentimentStyles[item.Class]
		if !ok {
			style = sentimentStyles["other"]
		}
		fmt.Fprintf(&b, "    %s: %s\n", item.Label, style.Render(item.Value))
	}
	if len(view.Entities) > 0 {
		b.WriteString("  " + labelStyle.Render("Entities:") + "\n")
		for _, entity := range view.Entities {
			fmt.Fprintf(&b, "    %s: %s\n", entity.Type, entity.Text)
		}
	}
	if view.SpeakerRoles != "" {
		fmt.Fprintf(&b, "  %s\n%s\n", labelStyle.Render("Speaker Roles:"), indent(view.SpeakerRoles, "    "))
	}
	if view.TalkRatio != "" {
		fmt.Fprintf(&b, "  %s\n%s\n", labelStyle.Render("Talk Ratio:"), indent(view.TalkRatio, "    "))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	type binding struct{ key, desc string }
	var bindings []binding
	if m.mode == modeDetail {
		bindings = []binding{{"esc", "back"}, {"↑/↓", "scroll"}, {"t", "transcribe"}, {"a", "analyze"}, {"q", "quit"}}
	} else {
		bindings = []binding{{"↑/↓", "select"}, {"enter", "open"}, {"t", "transcribe"}, {"a", "analyze"}, {"r", "refresh"}, {"q", "quit"}}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		parts = append(parts, footerKeyStyle.Render(kb.key)+" "+footerDescStyle.Render(kb.desc))
	}
	return strings.Join(parts, "  ")
}

func (m Model) contentWidth() int {
	if m.width <= 4 {
		return 76
	}
	return m.width - 4
}

func conversationStatus(conv *store.Conversation) string {
	switch {
	case conv.HasAnalysis():
		return "analyzed"
	case conv.HasTranscript():
		return "transcribed"
	default:
		return "uploaded"
	}
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
