package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"voiceapp/internal/conversation"
	"voiceapp/internal/store"
	"voiceapp/internal/web"
)

// Service is the conversation surface the browser drives.
type Service interface {
	List(ctx context.Context) ([]*store.Conversation, error)
	Get(ctx context.Context, id int64) (*store.Conversation, error)
	Transcribe(ctx context.Context, id int64) (*conversation.TranscribeResult, error)
	Analyze(ctx context.Context, id int64) (*conversation.AnalyzeResult, error)
}

type mode int

const (
	modeList mode = iota
	modeDetail
)

// Model is the root bubbletea model.
type Model struct {
	ctx context.Context
	svc Service

	mode     mode
	items    []*store.Conversation
	selected int
	loading  bool

	detail   *store.Conversation
	analysis *web.AnalysisView
	scroll   int

	busy         string
	errorMessage string

	width  int
	height int
}

// New creates a Model that loads the conversation list on start.
func New(ctx context.Context, svc Service) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	return Model{ctx: ctx, svc: svc, loading: true}
}

// Run starts the full-screen browser and blocks until the user quits.
func Run(ctx context.Context, svc Service) error {
	program := tea.NewProgram(New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init returns the initial command: load the list.
func (m Model) Init() tea.Cmd {
	return loadListCmd(m.ctx, m.svc)
}

func loadListCmd(ctx context.Context, svc Service) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.List(ctx)
		return listLoadedMsg{items: items, err: err}
	}
}

func loadDetailCmd(ctx context.Context, svc Service, id int64) tea.Cmd {
	return func() tea.Msg {
		conv, err := svc.Get(ctx, id)
		return detailLoadedMsg{conv: conv, err: err}
	}
}

func transcribeCmd(ctx context.Context, svc Service, id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.Transcribe(ctx, id)
		return actionDoneMsg{id: id, action: "transcribe", err: err}
	}
}

func analyzeCmd(ctx context.Context, svc Service, id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.Analyze(ctx, id)
		return actionDoneMsg{id: id, action: "analyze", err: err}
	}
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case listLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errorMessage = describeError(msg.err)
			return m, nil
		}
		m.items = msg.items
		if m.selected >= len(m.items) {
			m.selected = max(0, len(m.items)-1)
		}
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.errorMessage = describeError(msg.err)
			return m, nil
		}
		m.setDetail(msg.conv)
		return m, nil

	case actionDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.errorMessage = describeError(msg.err)
			return m, nil
		}
		cmds := []tea.Cmd{loadListCmd(m.ctx, m.svc)}
		if m.detail != nil && m.detail.ID == msg.id {
			cmds = append(cmds, loadDetailCmd(m.ctx, m.svc, msg.id))
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

func (m *Model) setDetail(conv *store.Conversation) {
	m.mode = modeDetail
	m.detail = conv
	m.analysis = nil
	if conv != nil {
		if view, err := web.BuildAnalysisView(conv.AnalysisJSON); err == nil {
			m.analysis = view
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	m.errorMessage = ""

	if m.mode == modeDetail {
		return m.handleDetailKey(msg)
	}

	switch msg.String() {
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.items)-1 {
			m.selected++
		}
	case "home", "g":
		m.selected = 0
	case "end", "G":
		m.selected = max(0, len(m.items)-1)
	case "r":
		m.loading = true
		return m, loadListCmd(m.ctx, m.svc)
	case "enter":
		if conv := m.current(); conv != nil {
			m.scroll = 0
			m.setDetail(conv)
			return m, loadDetailCmd(m.ctx, m.svc, conv.ID)
		}
	case "t":
		return m.startAction("transcribe", m.current())
	case "a":
		return m.startAction("analyze", m.current())
	}
	return m, nil
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "h", "left":
		m.mode = modeList
		m.detail = nil
		m.analysis = nil
		m.scroll = 0
	case "up", "k":
		if m.scroll > 0 {
			m.scroll--
		}
	case "down", "j":
		m.scroll++
	case "pgup":
		m.scroll = max(0, m.scroll-m.pageSize())
	case "pgdown", " ":
		m.scroll += m.pageSize()
	case "t":
		return m.startAction("transcribe", m.detail)
	case "a":
		return m.startAction("analyze", m.detail)
	}
	return m, nil
}

func (m Model) startAction(action string, conv *store.Conversation) (tea.Model, tea.Cmd) {
	if conv == nil || m.busy != "" {
		return m, nil
	}
	switch action {
	case "transcribe":
		m.busy = fmt.Sprintf("Transcribing conversation #%d...", conv.ID)
		return m, transcribeCmd(m.ctx, m.svc, conv.ID)
	case "analyze":
		if !conv.HasTranscript() {
			m.errorMessage = conversation.MsgNoTranscript
			return m, nil
		}
		m.busy = fmt.Sprintf("Analyzing conversation #%d...", conv.ID)
		return m, analyzeCmd(m.ctx, m.svc, conv.ID)
	}
	return m, nil
}

func (m Model) current() *store.Conversation {
	if m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return m.items[m.selected]
}

func (m Model) pageSize() int {
	if m.height == 0 {
		return 10
	}
	return max(1, m.height-6)
}

func describeError(err error) string {
	if convErr, ok := conversation.AsError(err); ok {
		if details := convErr.Details(); details != "" {
			return convErr.Message + ": " + details
		}
		return convErr.Message
	}
	return err.Error()
}
