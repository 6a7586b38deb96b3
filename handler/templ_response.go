package handler

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

// TemplOption is datastar's element patch option.
type TemplOption = datastar.PatchElementOption

// WithTarget sets the CSS selector the component is patched into.
func WithTarget(selector string) TemplOption {
	return datastar.WithSelector(selector)
}

func WithPatchMode(mode datastar.ElementPatchMode) TemplOption {
	return datastar.WithMode(mode)
}

type templResponse struct {
	component templ.Component
	options   []TemplOption
}

// Render patches the component over SSE for datastar requests and writes
// plain HTML otherwise.
func (t templResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if IsDataStar(r) {
		return datastar.NewSSE(w, r).PatchElementTempl(t.component, t.options...)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.component.Render(r.Context(), w)
}

func Templ(component templ.Component, opts ...TemplOption) Response {
	return templResponse{component: component, options: opts}
}
