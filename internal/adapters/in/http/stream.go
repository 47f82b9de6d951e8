package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/labstack/echo/v4"
)

// StreamNotifications handles GET /api/v1/notifications/stream. The caller
// is subscribed once to the channel of its role and receives events as
// Server-Sent Events until it disconnects.
func (s *Server) StreamNotifications(c echo.Context) error {
	actor, err := s.authenticated(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	sub, err := s.handlers.Notifications.Subscribe(ctx, actor)
	if err != nil {
		return s.fail(c, err)
	}
	defer func() { _ = sub.Close() }()

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, sse.ContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err = w.Write([]byte(": keep-alive\n\n")); err != nil {
				return nil
			}
			w.Flush()
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err = sse.Encode(w, sse.Event{Id: ev.ID, Event: string(ev.Kind), Data: ev}); err != nil {
				s.logger.WarnContext(ctx, "stream write failed", "error", err)
				return nil
			}
			w.Flush()
		}
	}
}
