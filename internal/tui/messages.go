package tui

import "voiceapp/internal/store"

type listLoadedMsg struct {
	items []*store.Conversation
	err   error
}

type detailLoadedMsg struct {
	conv *store.Conversation
	err  error
}

// actionDoneMsg reports the end of a transcribe or analyze request.
type actionDoneMsg struct {
	id     int64
	action string
	err    error
}
