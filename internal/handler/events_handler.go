package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Events godoc
// @Summary      Stream relationship events
// @Description  Server-sent events for requests received, accepted, rejected or withdrawn and relationships removed.
// @Tags         relationships
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string "data: {\"type\": \"request.received\", \"payload\": {...}}"
// @Failure      401  {object}  ErrorResponse
// @Router       /relationships/events [get]
func (h *Handler) Events(c *gin.Context) {
	me, err := h.sessionUser(c)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	client := h.hub.Subscribe(me)
	defer h.hub.Unsubscribe(me, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	keepAlive := time.NewTicker(h.keepAlive)
	defer keepAlive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", msg); err != nil {
				h.log.WithError(err).WithField("user_id", me).Debug("Event stream closed")
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(c.Writer, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		c.Writer.Flush()
	}
}
