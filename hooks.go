package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"
)

func init() {
	// xdg-open and friends print to the terminal bubbletea owns
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// tuiHooks carries shell actions out to the TUI and the host system
type tuiHooks struct {
	send    func(tea.Msg)
	openURL func(url string) error
}

func newHooks(send func(tea.Msg)) *tuiHooks {
	return &tuiHooks{send: send, openURL: browser.OpenURL}
}

func (h *tuiHooks) OpenPreview(title, content string) {
	h.send(previewMsg{title: title, content: content})
}

func (h *tuiHooks) OpenResource(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.openURL(url)
}
