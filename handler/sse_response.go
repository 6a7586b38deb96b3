package handler

import "net/http"

// SSEHandler runs for the lifetime of an SSE connection. The connection
// closes when it returns or the client goes away.
//
//	return handler.SSE(func(stream handler.StreamContext) error {
//		sub := store.SubscribePosts(stream)
//		for msg := range sub.Receive(stream) {
//			if err := stream.SendSignals(map[string]any{"posts": msg.Data}); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
type SSEHandler func(ctx StreamContext) error

type sseResponse struct {
	handler SSEHandler
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return NewHTTPError(http.StatusBadRequest, ErrNotDataStar.Error())
	}
	return s.handler(&streamContext{
		Context: NewContext(w, r),
		sse:     NewSSE(w, r),
	})
}

// SSE creates a streaming response.
func SSE(handler SSEHandler) Response {
	return sseResponse{handler: handler}
}
