package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
)

const defaultInboxLimit = 20

func handleInbox(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultInboxLimit
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
				limit = n
			}
		}

		ns, err := notify.Inbox(opts.DB, currentIdentity(c).ID, limit)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": toNotificationViews(ns)})
	}
}

func handleUnreadCount(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := notify.UnreadCount(opts.DB, currentIdentity(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread": count})
	}
}

func handleMarkRead(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
			return
		}
		if err := notify.MarkRead(opts.DB, currentIdentity(c).ID, uint(id)); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleMarkAllRead(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := notify.MarkAllRead(opts.DB, currentIdentity(c).ID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
