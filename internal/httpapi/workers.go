package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/profile"
)

func handleWorkerProfile(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := profile.Get(opts.DB, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toProfileView(p))
	}
}

type addReviewRequest struct {
	Comment     string `json:"comment"`
	AudioURL    string `json:"audio_url"`
	Rating      int    `json:"rating"`
	IsSatisfied bool   `json:"is_satisfied"`
}

func handleAddReview(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, fmt.Errorf("%w: %v", job.ErrValidation, err))
			return
		}

		ident := currentIdentity(c)
		r, err := profile.AddReview(opts.DB, profile.ReviewOpts{
			WorkerID:    c.Param("id"),
			Author:      ident.DisplayName,
			Comment:     req.Comment,
			AudioURL:    req.AudioURL,
			Rating:      req.Rating,
			IsSatisfied: req.IsSatisfied,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reviewView{
			Author:      r.Author,
			Comment:     r.Comment,
			AudioURL:    r.AudioURL,
			Rating:      r.Rating,
			IsSatisfied: r.IsSatisfied,
			CreatedAt:   r.CreatedAt,
		})
	}
}
