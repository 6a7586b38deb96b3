package feed

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/socialdash/dashboard/svc/posts"
)

// BadgeElementID is the DOM id of the new-posts badge.
const BadgeElementID = "new-posts-badge"

// NewPostsBadge renders the badge for a dashboard state. A zero count renders
// a hidden badge so the element stays patchable.
func NewPostsBadge(state posts.DashboardState) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		class := "badge"
		if state.Fading {
			class += " badge-fading"
		}
		if state.Count == 0 {
			_, err := fmt.Fprintf(w, `<span id="%s" class="%s" hidden></span>`, BadgeElementID, class)
			return err
		}
		label := "new posts"
		if state.Count == 1 {
			label = "new post"
		}
		_, err := fmt.Fprintf(w, `<span id="%s" class="%s">%d %s</span>`, BadgeElementID, class, state.Count, label)
		return err
	})
}
