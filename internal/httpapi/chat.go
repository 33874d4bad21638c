package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/chat"
	"github.com/salemkamoundev/Snay3ia/internal/job"
)

func handleThread(opts *ServerOpts) gin.HandlerFunc {
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

		msgs, err := chat.Thread(opts.DB, jobID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"messages": toMessageViews(msgs)})
	}
}

type sendMessageRequest struct {
	Text    string `json:"text"`
	ReplyTo uint   `json:"reply_to"`
}

func handleSendMessage(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, fmt.Errorf("%w: %v", job.ErrValidation, err))
			return
		}

		msg, err := chat.Send(opts.DB, opts.Hub, chat.SendOpts{
			JobID:   c.Param("id"),
			Sender:  currentIdentity(c),
			Text:    req.Text,
			ReplyTo: req.ReplyTo,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toMessageView(msg))
	}
}

func handleMarkThreadRead(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := chat.MarkThreadRead(opts.DB, opts.Hub, c.Param("id"), currentIdentity(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
