// Package output renders task snapshots into chat messages.
package output

import (
	"fmt"
	"strings"

	"gtaskbot/internal/service"
	"gtaskbot/internal/snapshot"
)

const (
	// ListHeader is the first line of a rendered task list.
	ListHeader = "📋 Your tasks:"

	// NoPendingTasksText is the whole message for an empty list.
	NoPendingTasksText = "✅ No pending tasks!"

	// DigestHeader is the first line of a non-empty digest.
	DigestHeader = "🌞 Good morning! Here are your tasks for today:"

	// DigestEmptyText is the whole digest for an empty list.
	DigestEmptyText = "🌞 Good morning! You have no pending tasks today. Enjoy your day! 🎉"

	// ErrorPrefix marks a store failure reported to the user.
	ErrorPrefix = "❌ Error: "

	// WarningPrefix marks a rejected input reported to the user.
	WarningPrefix = "⚠️ "
)

// Control is an inline button carrying an opaque token.
type Control struct {
	Label string
	Token string
}

// Message is a reply: text plus zero or more controls, one per row.
type Message struct {
	Text     string
	Controls []Control
}

// Text returns a message with no controls.
func Text(s string) Message {
	return Message{Text: s}
}

// RenderList formats an indexed snapshot.
// Lines use 1-based numbers; control tokens carry the 0-based position.
func RenderList(entries []snapshot.Entry) Message {
	if len(entries) == 0 {
		return Message{Text: NoPendingTasksText}
	}

	var b strings.Builder
	b.WriteString(ListHeader)
	b.WriteString("\n")

	controls := make([]Control, 0, len(entries))
	for _, e := range entries {
		num := e.Position + 1
		fmt.Fprintf(&b, "\n%d. %s", num, normalizeTitle(e.Task.Title))
		controls = append(controls, Control{
			Label: fmt.Sprintf("❌ Delete #%d", num),
			Token: snapshot.DeleteToken(e.Position),
		})
	}

	return Message{Text: b.String(), Controls: controls}
}

// ComposeDigest formats the non-interactive daily summary.
func ComposeDigest(tasks []service.Task) string {
	if len(tasks) == 0 {
		return DigestEmptyText
	}

	lines := make([]string, len(tasks))
	for i, task := range tasks {
		lines[i] = "• " + normalizeTitle(task.Title)
	}
	return DigestHeader + "\n\n" + strings.Join(lines, "\n")
}

// FormatStoreError formats a backend failure for the user.
func FormatStoreError(err error) string {
	return ErrorPrefix + err.Error()
}

// FormatWarning formats a rejected input for the user.
func FormatWarning(msg string) string {
	return WarningPrefix + msg
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
