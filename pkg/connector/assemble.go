// Copyright 2024-2026 Aiku AI

package connector

import (
	"context"
	"fmt"
	"time"

	"github.com/aiku/textpost-bridge/pkg/connector/postfmt"
)

// assemblePost builds a normalized Post from an inbound event.
//
// A message without media runs its body straight through title extraction.
// A multimedia message is classified first; the text attachment fetch and
// the image uploads then run concurrently and are joined before the post is
// assembled. Post.Media keeps the input ordering of the image locators no
// matter which upload finishes first.
//
// A failed text attachment fetch fails the whole assembly. A failed image
// upload only loses that image: it is logged with its locator and omitted
// from Post.Media while its siblings go through.
func (c *Connector) assemblePost(ctx context.Context, evt *IncomingEvent) (*Post, error) {
	if len(evt.Media) == 0 {
		title, content := postfmt.Extract(evt.Body)
		return &Post{Title: title, Content: content, Media: []string{}}, nil
	}

	media := evt.Media
	if c.Config.Media.SkipFirst && len(media) > 0 {
		// Some providers use the first media slot for a non-content entry.
		media = media[1:]
	}
	textLocator, imageLocators := classifyMedia(media)

	type textResult struct {
		content string
		err     error
	}
	textCh := make(chan textResult, 1)
	go func() {
		fetchCtx, cancel := context.WithTimeout(ctx, c.textFetchTimeout())
		defer cancel()
		content, err := resolveText(fetchCtx, c.fetchClient, textLocator)
		textCh <- textResult{content: content, err: err}
	}()

	uploads := c.uploadImages(ctx, imageLocators)

	text := <-textCh
	if text.err != nil {
		return nil, fmt.Errorf("failed to resolve text attachment: %w", text.err)
	}
	title, content := postfmt.Extract(text.content)

	hosted := make([]string, 0, len(uploads))
	for _, res := range uploads {
		if res.Err != nil {
			c.log.Warn().Err(res.Err).
				Str("locator", res.Locator).
				Msg("Image upload failed, omitting from post")
			continue
		}
		if res.Hosted == nil || res.Hosted.SecureURL == "" {
			c.log.Warn().
				Str("locator", res.Locator).
				Msg("Hosting result has no secure URL, omitting from post")
			continue
		}
		hosted = append(hosted, res.Hosted.SecureURL)
	}

	return &Post{Title: title, Content: content, Media: hosted}, nil
}

// buildEnvelope merges a Post with the event's metadata into the unit
// handed to the publish collaborator.
func buildEnvelope(post *Post, evt *IncomingEvent, now time.Time) *OutgoingEnvelope {
	return &OutgoingEnvelope{
		Title:            post.Title,
		Content:          post.Content,
		Media:            post.Media,
		Author:           evt.From,
		RecipientContext: evt.To,
		CorrelationID:    evt.ID,
		Date:             now,
	}
}
