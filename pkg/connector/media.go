// Copyright 2024-2026 Aiku AI

package connector

import "strings"

// imageExtensions lists the locator suffixes treated as image sources.
// Matching is deliberately case-sensitive: ".jpg" is an image, ".JPG" is
// not. Widening the match would reclassify locators that were previously
// dropped, so the narrow contract is kept fixed.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// textExtension marks the locator carrying the message text for multimedia
// messages.
const textExtension = ".txt"

// classifyMedia partitions media locators into a text source and image
// sources. The first ".txt" locator wins as the text source; image locators
// keep their input order, duplicates included (stable partition, never
// sorted). A locator matching neither category is dropped from both
// outputs, and a locator without an extension is never classified.
func classifyMedia(locators []string) (textLocator string, imageLocators []string) {
	for _, loc := range locators {
		switch {
		case strings.HasSuffix(loc, textExtension):
			if textLocator == "" {
				textLocator = loc
			}
		case isImageLocator(loc):
			imageLocators = append(imageLocators, loc)
		}
	}
	return textLocator, imageLocators
}

func isImageLocator(loc string) bool {
	for _, ext := range imageExtensions {
		if strings.HasSuffix(loc, ext) {
			return true
		}
	}
	return false
}
