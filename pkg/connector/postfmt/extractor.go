// Copyright 2024-2026 Aiku AI

// Package postfmt turns raw message text into post title and content.
//
// Users mark an inline title by surrounding it with two periods on each
// side: "..My Title.. rest of the post". Extract pulls the first such span
// out of the message and returns the remainder as content.
package postfmt

import "strings"

// delimiter is the two-character marker that opens and closes an inline title.
const delimiter = ".."

// Extract pulls an optional delimited title out of message text.
//
// The title is the first leftmost-shortest span wrapped in the delimiter on
// both sides: "..Hello.. world" yields title "Hello" and content "world".
// When a non-empty title is found, the literal "..title.." sequence is
// removed once and the remaining content is trimmed of surrounding
// whitespace. A message without a delimited span, or with an empty span,
// passes through unchanged with an empty title. An empty message yields
// empty title and content; there are no error conditions.
func Extract(message string) (title, content string) {
	if message == "" {
		return "", ""
	}
	title, ok := findSpan(message)
	if !ok || title == "" {
		return "", message
	}
	content = strings.Replace(message, delimiter+title+delimiter, "", 1)
	return title, strings.TrimSpace(content)
}

// findSpan locates the first delimited span: the leftmost opening marker
// followed by the nearest closing marker after it. Leftmost-match,
// shortest-capture semantics are load-bearing for compatibility and are
// stated here as explicit post-conditions rather than left to a regexp.
func findSpan(s string) (string, bool) {
	start := strings.Index(s, delimiter)
	if start < 0 {
		return "", false
	}
	rest := s[start+len(delimiter):]
	end := strings.Index(rest, delimiter)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
