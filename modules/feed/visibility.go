package feed

import (
	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/validator"
	"github.com/socialdash/dashboard/svc/visibility"
)

type observeRequest struct {
	ElementID string `json:"elementId" form:"elementId"`
	PostID    int64  `json:"postId" form:"postId"`
}

type unobserveRequest struct {
	ElementID string `json:"elementId" form:"elementId"`
}

type signalRequest struct {
	ElementID      string `json:"elementId" form:"elementId"`
	IsIntersecting bool   `json:"isIntersecting" form:"isIntersecting"`
}

func (m *Module) observe(_ handler.Context, req observeRequest) handler.Response {
	if err := validator.Apply(validator.Required("elementId", req.ElementID)); err != nil {
		return handler.JSONError(err)
	}
	if _, ok := m.posts.Post(req.PostID); !ok {
		return handler.JSONError(handler.ErrNotFound)
	}
	m.tracker.Observe(req.ElementID, req.PostID)
	return handler.Empty()
}

func (m *Module) unobserve(_ handler.Context, req unobserveRequest) handler.Response {
	m.tracker.Unobserve(req.ElementID)
	return handler.Empty()
}

func (m *Module) signal(_ handler.Context, req signalRequest) handler.Response {
	m.tracker.Signal(visibility.Intersection{
		ElementID:      req.ElementID,
		IsIntersecting: req.IsIntersecting,
	})
	return handler.Empty()
}
