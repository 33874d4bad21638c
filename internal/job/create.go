package job

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/salemkamoundev/Snay3ia/internal/blob"
	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
	"gorm.io/gorm"
)

// ErrValidation is returned for bad input shape: empty description or no
// media files. Always local and recoverable.
var ErrValidation = errors.New("job: validation")

// UploadError reports which media file failed to reach the object store.
// Any upload failure aborts creation entirely; no partial job is written.
type UploadError struct {
	File string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("job: upload %s: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// MediaFile is one file attached to a job request.
type MediaFile struct {
	Name   string
	Reader io.Reader
}

// CreateOpts holds parameters for creating a job.
type CreateOpts struct {
	Description string
	Media       []MediaFile
	Owner       identity.Identity
}

// Create validates the request, uploads every media file, and only then
// writes the job record with status=analyzing and a pending annotation
// claim. The uploads-then-write ordering guarantees a job row never
// references a URL that is not durable, and an upload failure leaves no
// row behind.
func Create(gormDB *gorm.DB, store blob.Store, hub *stream.Hub, opts CreateOpts) (*models.Job, error) {
	if opts.Owner.ID == "" {
		return nil, identity.ErrUnauthenticated
	}
	if strings.TrimSpace(opts.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if len(opts.Media) == 0 {
		return nil, fmt.Errorf("%w: at least one media file is required", ErrValidation)
	}

	urls := make([]string, 0, len(opts.Media))
	for _, m := range opts.Media {
		url, err := store.Upload(m.Name, m.Reader)
		if err != nil {
			return nil, &UploadError{File: m.Name, Err: err}
		}
		urls = append(urls, url)
	}

	id, err := generateUniqueID(gormDB)
	if err != nil {
		return nil, err
	}

	j := models.Job{
		ID:          id,
		Description: opts.Description,
		Status:      StatusAnalyzing,
		AIState:     AIPending,
		OwnerID:     opts.Owner.ID,
		OwnerEmail:  opts.Owner.Email,
	}
	if err := j.SetMediaURLList(urls); err != nil {
		return nil, fmt.Errorf("job: encode media urls: %w", err)
	}

	if err := gormDB.Create(&j).Error; err != nil {
		return nil, fmt.Errorf("job: create: %w", err)
	}

	if hub != nil {
		hub.Publish(stream.TopicJobs)
	}
	return &j, nil
}
