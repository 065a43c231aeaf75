package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// noticeKind selects the styling of a transient message.
type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeWarn
	noticeError
)

// notice is a transient fire-and-forget message shown below the table. It is
// never a blocking modal; it expires on its own.
type notice struct {
	kind noticeKind
	text string
}

// showNotice replaces the current notice and arms its expiry. The sequence
// number makes a stale expiry tick harmless when a newer notice replaced the
// message in the meantime.
func (m Model) showNotice(kind noticeKind, text string) (Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = notice{kind: kind, text: text}
	seq := m.noticeSeq
	return m, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpireMsg(seq)
	})
}

func (m Model) renderNotice() string {
	if m.notice.text == "" {
		return ""
	}
	styles := m.theme.Styles()
	switch m.notice.kind {
	case noticeSuccess:
		return styles.SuccessText.Render(m.notice.text)
	case noticeWarn:
		return styles.WarningText.Render(m.notice.text)
	case noticeError:
		return styles.DangerText.Render(m.notice.text)
	default:
		return styles.MutedText.Render(m.notice.text)
	}
}
