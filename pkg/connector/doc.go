// Copyright 2024-2026 Aiku AI

// Package connector turns inbound messaging-provider events into published
// posts. It runs a webhook server that accepts message events, splits each
// message into a title and content with postfmt, classifies attached media
// into a text source and images, uploads the images to an image host,
// resolves the remote text attachment, and delivers the assembled post
// envelope to the configured publish endpoint. Envelopes can optionally be
// mirrored to an AMQP exchange.
package connector
