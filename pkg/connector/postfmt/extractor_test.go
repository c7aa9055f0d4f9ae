// Copyright 2024-2026 Aiku AI

package postfmt

import "testing"

func TestExtract(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		message     string
		wantTitle   string
		wantContent string
	}{
		{
			name:        "title and content",
			message:     "..Hello.. world",
			wantTitle:   "Hello",
			wantContent: "world",
		},
		{
			name:        "title after content",
			message:     "world ..Hello..",
			wantTitle:   "Hello",
			wantContent: "world",
		},
		{
			name:        "no delimiter",
			message:     "plain text",
			wantTitle:   "",
			wantContent: "plain text",
		},
		{
			name:        "single delimiter pair is not a span",
			message:     "trailing..",
			wantTitle:   "",
			wantContent: "trailing..",
		},
		{
			name:        "unclosed span",
			message:     "..never closed",
			wantTitle:   "",
			wantContent: "..never closed",
		},
		{
			name:        "empty message",
			message:     "",
			wantTitle:   "",
			wantContent: "",
		},
		{
			name:        "empty span passes message through",
			message:     ".... body",
			wantTitle:   "",
			wantContent: ".... body",
		},
		{
			name:        "first of multiple spans wins",
			message:     "..First.. and ..Second.. text",
			wantTitle:   "First",
			wantContent: "and ..Second.. text",
		},
		{
			name:        "shortest capture wins",
			message:     "..a..b..",
			wantTitle:   "a",
			wantContent: "b..",
		},
		{
			name:        "title with inner periods",
			message:     "..v1.2 notes.. released",
			wantTitle:   "v1.2 notes",
			wantContent: "released",
		},
		{
			name:        "only surrounding whitespace is trimmed",
			message:     "before ..T.. after",
			wantTitle:   "T",
			wantContent: "before  after",
		},
		{
			name:        "removal happens once",
			message:     "..a....a..",
			wantTitle:   "a",
			wantContent: "..a..",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			title, content := Extract(tt.message)
			if title != tt.wantTitle {
				t.Errorf("title: got %q, want %q", title, tt.wantTitle)
			}
			if content != tt.wantContent {
				t.Errorf("content: got %q, want %q", content, tt.wantContent)
			}
		})
	}
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()
	const message = "..Release.. it is out"
	t1, c1 := Extract(message)
	t2, c2 := Extract(message)
	if t1 != t2 || c1 != c2 {
		t.Errorf("Extract is not deterministic: (%q, %q) vs (%q, %q)", t1, c1, t2, c2)
	}
}
