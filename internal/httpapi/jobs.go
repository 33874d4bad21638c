package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/notify"
	"github.com/salemkamoundev/Snay3ia/internal/proposal"
)

// handleCreateJob accepts a multipart form: a "description" field and one
// or more "media" files. Every file must land in the object store before
// the job row is written.
func handleCreateJob(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := currentIdentity(c)

		form, err := c.MultipartForm()
		if err != nil {
			writeError(c, fmt.Errorf("%w: %v", job.ErrValidation, err))
			return
		}
		description := c.PostForm("description")
		files := form.File["media"]

		media := make([]job.MediaFile, 0, len(files))
		for _, fh := range files {
			if fh.Size > opts.MaxUploadBytes {
				writeError(c, &job.UploadError{
					File: fh.Filename,
					Err:  fmt.Errorf("exceeds %d byte limit", opts.MaxUploadBytes),
				})
				return
			}
			f, err := fh.Open()
			if err != nil {
				writeError(c, &job.UploadError{File: fh.Filename, Err: err})
				return
			}
			defer f.Close()
			media = append(media, job.MediaFile{Name: fh.Filename, Reader: f})
		}

		j, err := job.Create(opts.DB, opts.Media, opts.Hub, job.CreateOpts{
			Description: description,
			Media:       media,
			Owner:       ident,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, toJobView(j))
	}
}

func handleListOpen(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := job.ListOpen(opts.DB)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": toJobViews(jobs)})
	}
}

func handleListMine(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := job.ListForOwner(opts.DB, currentIdentity(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": toJobViews(jobs)})
	}
}

func handleListAssigned(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobs, err := job.ListForWorker(opts.DB, currentIdentity(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"jobs": toJobViews(jobs)})
	}
}

func handleGetJob(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		j, err := job.Get(opts.DB, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toJobView(j))
	}
}

type submitProposalRequest struct {
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

func handleSubmitProposal(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitProposalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, fmt.Errorf("%w: %v", job.ErrValidation, err))
			return
		}

		p, err := proposal.Submit(opts.DB, opts.Hub, proposal.SubmitOpts{
			JobID:       c.Param("id"),
			Worker:      currentIdentity(c),
			Price:       req.Price,
			Description: req.Description,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		mirrorLatest(opts, p.JobID)
		c.JSON(http.StatusCreated, toProposalView(p))
	}
}

type acceptRequest struct {
	WorkerID string `json:"worker_id"`
}

func handleAccept(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req acceptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, fmt.Errorf("%w: %v", job.ErrValidation, err))
			return
		}

		j, err := proposal.Accept(opts.DB, opts.Hub, c.Param("id"), currentIdentity(c).ID, req.WorkerID)
		if err != nil {
			writeError(c, err)
			return
		}
		mirrorLatest(opts, j.ID)
		c.JSON(http.StatusOK, toJobView(j))
	}
}

func handleComplete(opts *ServerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		j, err := job.Complete(opts.DB, opts.Hub, c.Param("id"), currentIdentity(c).ID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toJobView(j))
	}
}

// mirrorLatest forwards the most recent notification for a job to the ops
// webhook. Best-effort.
func mirrorLatest(opts *ServerOpts, jobID string) {
	if opts.Webhook.URL == "" {
		return
	}
	n, err := notify.LatestForJob(opts.DB, jobID)
	if err != nil || n == nil {
		return
	}
	go notify.Mirror(n, opts.Webhook)
}
