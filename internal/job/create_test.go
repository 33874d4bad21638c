package job

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/salemkamoundev/Snay3ia/internal/identity"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/salemkamoundev/Snay3ia/internal/stream"
)

// fakeStore records uploads and can be told to fail on a given file name.
type fakeStore struct {
	uploaded []string
	failOn   string
}

func (s *fakeStore) Upload(name string, r io.Reader) (string, error) {
	if name == s.failOn {
		return "", fmt.Errorf("disk full")
	}
	io.Copy(io.Discard, r)
	s.uploaded = append(s.uploaded, name)
	return "http://localhost:8080/media/" + name, nil
}

var testOwner = identity.Identity{ID: "usr-owner01", DisplayName: "Salem", Email: "salem@example.tn"}

func TestCreate(t *testing.T) {
	db := openTestDB(t)
	store := &fakeStore{}
	hub := stream.NewHub()
	signals, cancel := hub.Subscribe(stream.TopicJobs)
	defer cancel()

	j, err := Create(db, store, hub, CreateOpts{
		Description: "fridge stopped cooling",
		Media: []MediaFile{
			{Name: "front.jpg", Reader: strings.NewReader("jpeg")},
			{Name: "back.jpg", Reader: strings.NewReader("jpeg")},
		},
		Owner: testOwner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if j.Status != StatusAnalyzing {
		t.Errorf("Status = %q, want %q", j.Status, StatusAnalyzing)
	}
	if j.AIState != AIPending {
		t.Errorf("AIState = %q, want %q", j.AIState, AIPending)
	}
	if j.OwnerID != testOwner.ID || j.OwnerEmail != testOwner.Email {
		t.Errorf("owner fields = %q / %q", j.OwnerID, j.OwnerEmail)
	}
	if urls := j.MediaURLList(); len(urls) != 2 {
		t.Errorf("MediaURLList = %v, want 2 urls", urls)
	}
	if len(store.uploaded) != 2 {
		t.Errorf("uploaded %d files, want 2", len(store.uploaded))
	}

	// Creation signals the job board.
	select {
	case <-signals:
	default:
		t.Error("expected a jobs-topic signal after Create")
	}

	// Row is durable and readable back.
	got, err := Get(db, j.ID)
	if err != nil {
		t.Fatalf("Get after Create: %v", err)
	}
	if got.Description != "fridge stopped cooling" {
		t.Errorf("Description = %q", got.Description)
	}
}

func TestCreateValidation(t *testing.T) {
	db := openTestDB(t)
	store := &fakeStore{}

	tests := []struct {
		name string
		opts CreateOpts
	}{
		{"empty description", CreateOpts{
			Description: "   ",
			Media:       []MediaFile{{Name: "a.jpg", Reader: strings.NewReader("x")}},
			Owner:       testOwner,
		}},
		{"no media", CreateOpts{
			Description: "broken",
			Owner:       testOwner,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(db, store, nil, tt.opts)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}

	// Rejected before any upload happens.
	if len(store.uploaded) != 0 {
		t.Errorf("validation failures uploaded %d files", len(store.uploaded))
	}
}

func TestCreateUnauthenticated(t *testing.T) {
	db := openTestDB(t)
	_, err := Create(db, &fakeStore{}, nil, CreateOpts{
		Description: "broken",
		Media:       []MediaFile{{Name: "a.jpg", Reader: strings.NewReader("x")}},
	})
	if !errors.Is(err, identity.ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestCreateUploadFailureLeavesNoRow(t *testing.T) {
	db := openTestDB(t)
	store := &fakeStore{failOn: "b.jpg"}

	_, err := Create(db, store, nil, CreateOpts{
		Description: "oven sparks",
		Media: []MediaFile{
			{Name: "a.jpg", Reader: strings.NewReader("x")},
			{Name: "b.jpg", Reader: strings.NewReader("x")},
		},
		Owner: testOwner,
	})

	var uploadErr *UploadError
	if !errors.As(err, &uploadErr) {
		t.Fatalf("err = %v, want *UploadError", err)
	}
	if uploadErr.File != "b.jpg" {
		t.Errorf("UploadError.File = %q, want b.jpg", uploadErr.File)
	}

	// No partial job row.
	var count int64
	if err := db.Model(&models.Job{}).Count(&count).Error; err != nil {
		t.Fatalf("count jobs: %v", err)
	}
	if count != 0 {
		t.Errorf("found %d job rows after failed upload, want 0", count)
	}
}
