package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/chat"
	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
	"github.com/salemkamoundev/Snay3ia/internal/profile"
	"github.com/salemkamoundev/Snay3ia/internal/proposal"
)

// writeError maps domain errors to HTTP statuses. Business-rule
// rejections are 409: the operation was well-formed but the job state no
// longer permits it.
func writeError(c *gin.Context, err error) {
	var uploadErr *job.UploadError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, job.ErrValidation),
		errors.Is(err, proposal.ErrInvalidPrice),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, profile.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, identity.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, identity.ErrNotAuthorized),
		errors.Is(err, chat.ErrNotParticipant):
		status = http.StatusForbidden
	case errors.Is(err, job.ErrNotFound),
		errors.Is(err, notify.ErrNotFound),
		errors.Is(err, profile.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, proposal.ErrDuplicateProposal),
		errors.Is(err, proposal.ErrJobNotOpen),
		errors.Is(err, proposal.ErrAlreadyAssigned),
		errors.Is(err, job.ErrNotAssigned):
		status = http.StatusConflict
	case errors.As(err, &uploadErr):
		status = http.StatusBadGateway
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
