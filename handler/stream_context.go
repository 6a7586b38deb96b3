package handler

import (
	"encoding/json"
	"fmt"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// StreamContext is the Context of a long-lived SSE response.
type StreamContext interface {
	Context

	// SendComponent patches a templ component into the page.
	SendComponent(component templ.Component, opts ...TemplOption) error

	// SendSignals merges values into the client's signals.
	SendSignals(signals map[string]any) error
}

type streamContext struct {
	Context
	sse *datastar.ServerSentEventGenerator
}

func (c *streamContext) SendComponent(component templ.Component, opts ...TemplOption) error {
	return c.sse.PatchElementTempl(component, opts...)
}

func (c *streamContext) SendSignals(signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return fmt.Errorf("encode signals: %w", err)
	}
	return c.sse.PatchSignals(data)
}
