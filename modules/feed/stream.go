package feed

import (
	"github.com/socialdash/dashboard/handler"
	"github.com/socialdash/dashboard/pkg/logger"
)

// stream pushes every store snapshot to the client as datastar signals and
// keeps the badge element patched. Each subscription starts with the current
// value, so a fresh client is fully populated before the first change.
func (m *Module) stream(_ handler.Context, _ struct{}) handler.Response {
	return handler.SSE(func(stream handler.StreamContext) error {
		postsSub := m.posts.SubscribePosts(stream)
		defer postsSub.Close()
		dashSub := m.posts.SubscribeDashboard(stream)
		defer dashSub.Close()
		notesSub := m.notifications.SubscribeNotifications(stream)
		defer notesSub.Close()
		unreadSub := m.notifications.SubscribeUnreadCount(stream)
		defer unreadSub.Close()

		m.log.DebugContext(stream, "stream opened")
		defer m.log.DebugContext(stream, "stream closed")

		for {
			var err error
			select {
			case <-stream.Done():
				return nil

			case msg, ok := <-postsSub.Receive(stream):
				if !ok {
					return nil
				}
				err = stream.SendSignals(map[string]any{"posts": msg.Data})

			case msg, ok := <-dashSub.Receive(stream):
				if !ok {
					return nil
				}
				err = stream.SendSignals(map[string]any{"dashboard": msg.Data})
				if err == nil {
					err = stream.SendComponent(NewPostsBadge(msg.Data), handler.WithTarget("#"+BadgeElementID), handler.WithPatchMode(handler.PatchOuter))
				}

			case msg, ok := <-notesSub.Receive(stream):
				if !ok {
					return nil
				}
				err = stream.SendSignals(map[string]any{"notifications": msg.Data})

			case msg, ok := <-unreadSub.Receive(stream):
				if !ok {
					return nil
				}
				err = stream.SendSignals(map[string]any{"unreadCount": msg.Data})
			}
			if err != nil {
				m.log.DebugContext(stream, "stream write failed", logger.Error(err))
				return nil
			}
		}
	})
}
