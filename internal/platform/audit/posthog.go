// Package audit emits fire-and-forget workflow events to PostHog. A missing
// API key degrades to a no-op so local setups run without credentials.
package audit

import (
	"log/slog"

	"github.com/posthog/posthog-go"

	portssvc "github.com/brgyhub/barangay_records_app/internal/core/ports/services"
)

type PosthogSink struct {
	client posthog.Client
	logger *slog.Logger
}

// NewPosthogSink initializes the PostHog-backed audit sink.
func NewPosthogSink(apiKey string, logger *slog.Logger) *PosthogSink {
	if apiKey == "" {
		logger.Warn("PostHog API key is empty, audit events will be dropped.")
		return &PosthogSink{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize PostHog client", slog.String("error", err.Error()))
		return &PosthogSink{logger: logger}
	}
	return &PosthogSink{client: client, logger: logger}
}

var _ portssvc.AuditSink = (*PosthogSink)(nil)

// Capture enqueues an event. Errors are logged and swallowed; audit delivery
// must never fail a workflow transition.
func (s *PosthogSink) Capture(actorUserID string, event string, properties map[string]any) {
	if s.client == nil {
		return
	}
	err := s.client.Enqueue(posthog.Capture{
		DistinctId: actorUserID,
		Event:      event,
		Properties: properties,
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("Failed to enqueue audit event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes and shuts down the underlying client.
func (s *PosthogSink) Close() {
	if s.client == nil {
		return
	}
	s.client.Close()
}
