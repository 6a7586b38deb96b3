package handler

import (
	"net/http"

	"github.com/starfederation/datastar-go/datastar"
)

type emptyResponse struct {
	status int
}

func (e emptyResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(e.status)
	return nil
}

// Empty responds 204 No Content.
func Empty() Response {
	return emptyResponse{status: http.StatusNoContent}
}

type redirectResponse struct {
	url  string
	code int
}

// Render redirects through SSE for datastar requests and with a Location
// header otherwise.
func (r redirectResponse) Render(w http.ResponseWriter, req *http.Request) error {
	if IsDataStar(req) {
		return datastar.NewSSE(w, req).Redirect(r.url)
	}
	http.Redirect(w, req, r.url, r.code)
	return nil
}

// Redirect responds 303 See Other.
func Redirect(url string) Response {
	return redirectResponse{url: url, code: http.StatusSeeOther}
}
