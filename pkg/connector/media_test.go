// Copyright 2024-2026 Aiku AI

package connector

import (
	"reflect"
	"testing"
)

func TestClassifyMedia(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		locators   []string
		wantText   string
		wantImages []string
	}{
		{
			name:       "mixed",
			locators:   []string{"https://cdn.example/a.txt", "https://cdn.example/b.png", "https://cdn.example/c.jpg"},
			wantText:   "https://cdn.example/a.txt",
			wantImages: []string{"https://cdn.example/b.png", "https://cdn.example/c.jpg"},
		},
		{
			name:       "first txt wins",
			locators:   []string{"one.txt", "two.txt", "pic.gif"},
			wantText:   "one.txt",
			wantImages: []string{"pic.gif"},
		},
		{
			name:       "images keep input order",
			locators:   []string{"z.gif", "a.png", "m.jpeg"},
			wantImages: []string{"z.gif", "a.png", "m.jpeg"},
		},
		{
			name:       "duplicates kept",
			locators:   []string{"same.png", "same.png"},
			wantImages: []string{"same.png", "same.png"},
		},
		{
			name:     "unknown extension dropped",
			locators: []string{"clip.mp4", "doc.pdf"},
		},
		{
			name:     "no extension dropped",
			locators: []string{"https://cdn.example/raw"},
		},
		{
			name:     "uppercase extension not an image",
			locators: []string{"photo.JPG", "photo.PNG"},
		},
		{
			name:     "empty input",
			locators: nil,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			text, images := classifyMedia(tt.locators)
			if text != tt.wantText {
				t.Errorf("text locator = %q, want %q", text, tt.wantText)
			}
			if !reflect.DeepEqual(images, tt.wantImages) {
				t.Errorf("image locators = %v, want %v", images, tt.wantImages)
			}
		})
	}
}

func TestIsImageLocator(t *testing.T) {
	t.Parallel()
	for loc, want := range map[string]bool{
		"a.png":  true,
		"a.jpg":  true,
		"a.jpeg": true,
		"a.gif":  true,
		"a.txt":  false,
		"a.webp": false,
		"a.JPG":  false,
		"":       false,
	} {
		if got := isImageLocator(loc); got != want {
			t.Errorf("isImageLocator(%q) = %v, want %v", loc, got, want)
		}
	}
}
