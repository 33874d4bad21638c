package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/chat"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
)

const heartbeatInterval = 15 * time.Second

// sseHeaders prepares the response for a long-lived event stream and sends
// the initial connected event.
func sseHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
	c.Writer.Flush()
}

// streamTopic runs the shared SSE loop: send a snapshot immediately, then
// resend whenever the hub signals the topic, with heartbeats in between.
// Hub signals coalesce, so a resend always reflects the latest state.
func streamTopic(c *gin.Context, hub *stream.Hub, topic string, snapshot func() (string, any, error)) {
	sseHeaders(c)

	signals, cancel := hub.Subscribe(topic)
	defer cancel()

	send := func() bool {
		event, data, err := snapshot()
		if err != nil {
			writeSSE(c.Writer, "error", map[string]string{"error": err.Error()})
			c.Writer.Flush()
			return false
		}
		writeSSE(c.Writer, event, data)
		c.Writer.Flush()
		return true
	}
	if !send() {
		return
	}

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			writeSSE(c.Writer, "heartbeat", map[string]string{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			c.Writer.Flush()
		case <-signals:
			if !send() {
				return
			}
		}
	}
}

// handleOpenJobsSSE streams the open job board. Every change to the board
// pushes a fresh snapshot.
func handleOpenJobsSSE(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		streamTopic(c, opts.Hub, stream.TopicJobs, func() (string, any, error) {
			jobs, err := job.ListOpen(opts.DB)
			if err != nil {
				return "", nil, err
			}
			return "jobs", gin.H{"jobs": toJobViews(jobs)}, nil
		})
	}
}

// handleInboxSSE streams the caller's notification inbox.
func handleInboxSSE(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := currentIdentity(c)
		streamTopic(c, opts.Hub, stream.InboxTopic(ident.ID), func() (string, any, error) {
			ns, err := notify.Inbox(opts.DB, ident.ID, defaultInboxLimit)
			if err != nil {
				return "", nil, err
			}
			unread, err := notify.UnreadCount(opts.DB, ident.ID)
			if err != nil {
				return "", nil, err
			}
			return "inbox", gin.H{
				"notifications": toNotificationViews(ns),
				"unread":        unread,
			}, nil
		})
	}
}

// handleChatSSE streams a job's chat thread to its participants.
func handleChatSSE(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		ident := currentIdentity(c)

		j, err := job.Get(opts.DB, jobID)
		if err != nil {
			writeError(c, err)
			return
		}
		if !chat.CanParticipate(j, ident.ID) {
			writeError(c, fmt.Errorf("%w: %s on %s", chat.ErrNotParticipant, ident.ID, jobID))
			return
		}

		streamTopic(c, opts.Hub, stream.ChatTopic(jobID), func() (string, any, error) {
			msgs, err := chat.Thread(opts.DB, jobID)
			if err != nil {
				return "", nil, err
			}
			return "thread", gin.H{"messages": toMessageViews(msgs)}, nil
		})
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
