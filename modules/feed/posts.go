package feed

import (
	"net/http"
	"strings"

	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/logger"
	"github.com/socialdash/dashboard/pkg/validator"
)

type createPostRequest struct {
	Author  string `json:"author" form:"author"`
	Content string `json:"content" form:"content"`
}

type postRequest struct {
	ID int64 `path:"id"`
}

func (m *Module) listPosts(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(m.posts.Posts())
}

func (m *Module) createPost(ctx handler.Context, req createPostRequest) handler.Response {
	req.Author = strings.TrimSpace(req.Author)
	req.Content = strings.TrimSpace(req.Content)
	if err := validator.Apply(
		validator.Required("author", req.Author),
		validator.Required("content", req.Content),
		validator.MaxLen("content", req.Content, 500),
	); err != nil {
		return handler.JSONError(err)
	}

	post := m.posts.AddPost(req.Author, req.Content)
	m.log.DebugContext(ctx, "post added", logger.PostID(post.ID))
	return handler.JSON(post, handler.WithJSONStatus(http.StatusCreated))
}

// postAction adapts a counter mutation. Unknown ids are 404.
func (m *Module) postAction(apply func(id int64) bool) handler.HandlerFunc[handler.Context, postRequest] {
	return func(_ handler.Context, req postRequest) handler.Response {
		if !apply(req.ID) {
			return handler.JSONError(handler.ErrNotFound)
		}
		post, _ := m.posts.Post(req.ID)
		return handler.JSON(post)
	}
}

// markSeen reports whether the call started the fade. Repeats and unknown
// ids are not errors.
func (m *Module) markSeen(_ handler.Context, req postRequest) handler.Response {
	return handler.JSON(map[string]bool{"marked": m.posts.MarkPostAsSeen(req.ID)})
}

func (m *Module) dashboard(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(m.posts.Dashboard())
}
