// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"fmt"
	"strings"
)

// Field is a labelled value in a notification body.
type Field struct {
	Label string
	Value string
}

// Notification builds the staff notification for a new submission.
// Empty fields are omitted.
func Notification(to, replyTo, subject, intro string, fields []Field) Message {
	var b strings.Builder
	b.WriteString(intro)
	b.WriteString("\n\n")
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			continue
		}
		fmt.Fprintf(&b, "**%s:** %s\n\n", f.Label, escapeMarkdown(f.Value))
	}
	return Message{To: to, ReplyTo: replyTo, Subject: subject, Body: b.String()}
}

// AutoReply builds the confirmation sent back to the submitter.
func AutoReply(to, name, churchName, subject, text string) Message {
	greeting := "Hello"
	if name != "" {
		greeting = "Hello " + escapeMarkdown(name)
	}
	body := fmt.Sprintf("%s,\n\n%s\n\nBlessings,\n\n%s\n", greeting, text, churchName)
	return Message{To: to, Subject: subject, Body: body}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`,
)

// escapeMarkdown keeps submitted text from being interpreted as formatting.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
