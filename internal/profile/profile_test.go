package profile

import (
	"errors"
	"math"
	"testing"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.WorkerProfile{}, &models.Review{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedWorker(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	p := models.WorkerProfile{UserID: id, DisplayName: name, Specialty: "plumbing"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed worker: %v", err)
	}
}

func TestGet(t *testing.T) {
	db := openTestDB(t)
	seedWorker(t, db, "usr-w1", "Karim")

	p, err := Get(db, "usr-w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.DisplayName != "Karim" || p.Specialty != "plumbing" {
		t.Errorf("profile = %+v", p)
	}

	if _, err := Get(db, "usr-ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestGetDefaultDisplayName(t *testing.T) {
	db := openTestDB(t)
	seedWorker(t, db, "usr-w1", "")

	p, err := Get(db, "usr-w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.DisplayName != "Artisan" {
		t.Errorf("DisplayName = %q, want Artisan fallback", p.DisplayName)
	}
}

func TestAddReviewRecomputesRating(t *testing.T) {
	db := openTestDB(t)
	seedWorker(t, db, "usr-w1", "Karim")

	reviews := []struct {
		rating int
		want   float64
	}{
		{5, 5.0},
		{3, 4.0},
		{4, 4.0},
	}
	for _, tc := range reviews {
		if _, err := AddReview(db, ReviewOpts{
			WorkerID:    "usr-w1",
			Author:      "Salem",
			Comment:     "good work",
			Rating:      tc.rating,
			IsSatisfied: tc.rating >= 3,
		}); err != nil {
			t.Fatalf("AddReview(%d): %v", tc.rating, err)
		}

		p, err := Get(db, "usr-w1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if math.Abs(p.Rating-tc.want) > 1e-9 {
			t.Errorf("after rating %d: aggregate = %v, want %v", tc.rating, p.Rating, tc.want)
		}
	}
}

func TestAddReviewOrdering(t *testing.T) {
	db := openTestDB(t)
	seedWorker(t, db, "usr-w1", "Karim")

	for _, comment := range []string{"first", "second"} {
		if _, err := AddReview(db, ReviewOpts{WorkerID: "usr-w1", Rating: 4, Comment: comment}); err != nil {
			t.Fatalf("AddReview: %v", err)
		}
	}

	p, err := Get(db, "usr-w1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(p.Reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(p.Reviews))
	}
}

func TestAddReviewValidation(t *testing.T) {
	db := openTestDB(t)
	seedWorker(t, db, "usr-w1", "Karim")

	for _, rating := range []int{0, 6, -1} {
		if _, err := AddReview(db, ReviewOpts{WorkerID: "usr-w1", Rating: rating}); !errors.Is(err, ErrValidation) {
			t.Errorf("AddReview(rating=%d) = %v, want ErrValidation", rating, err)
		}
	}

	if _, err := AddReview(db, ReviewOpts{WorkerID: "usr-ghost", Rating: 4}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddReview for missing worker = %v, want ErrNotFound", err)
	}

	// No orphan review row was written.
	var count int64
	db.Model(&models.Review{}).Count(&count)
	if count != 0 {
		t.Errorf("found %d review rows after rejected inputs", count)
	}
}
