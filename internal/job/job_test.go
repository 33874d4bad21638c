package job

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB creates an in-memory SQLite database with all required tables.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Job{},
		&models.Proposal{},
		&models.WorkerProfile{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedJob(t *testing.T, db *gorm.DB, j models.Job) models.Job {
	t.Helper()
	if j.Status == "" {
		j.Status = StatusAnalyzing
	}
	if j.AIState == "" {
		j.AIState = AIPending
	}
	if err := db.Create(&j).Error; err != nil {
		t.Fatalf("seed job %s: %v", j.ID, err)
	}
	return j
}

func TestGenerateID_Format(t *testing.T) {
	id, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID() error: %v", err)
	}
	if !strings.HasPrefix(id, "job-") {
		t.Errorf("ID %q missing job- prefix", id)
	}
	// job- (4 chars) + 8 hex chars = 12 total
	if len(id) != 12 {
		t.Errorf("ID length = %d, want 12; id = %q", len(id), id)
	}
}

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateID()
		if err != nil {
			t.Fatalf("GenerateID() iteration %d: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate ID %q on iteration %d", id, i)
		}
		seen[id] = true
	}
}

func TestIsOpen(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusAnalyzing, true},
		{StatusError, true},
		{StatusPending, false},
		{StatusAssigned, false},
		{StatusCompleted, false},
		{"unknown", false},
	}
	for _, tt := range tests {
		if got := IsOpen(tt.status); got != tt.want {
			t.Errorf("IsOpen(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidTransitions_TerminalStatuses(t *testing.T) {
	if _, ok := ValidTransitions[StatusCompleted]; ok {
		t.Error("completed must be terminal")
	}
	for from, tos := range ValidTransitions {
		for _, to := range tos {
			if from == to {
				t.Errorf("self transition %s -> %s", from, to)
			}
		}
	}
}

func TestGet(t *testing.T) {
	db := openTestDB(t)
	seedJob(t, db, models.Job{ID: "job-aaaa0001", Description: "leaking tap", OwnerID: "usr-owner"})

	j, err := Get(db, "job-aaaa0001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if j.Description != "leaking tap" {
		t.Errorf("Description = %q", j.Description)
	}

	if _, err := Get(db, "job-missing1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestListOpen(t *testing.T) {
	db := openTestDB(t)
	base := time.Now().Add(-time.Hour)
	seedJob(t, db, models.Job{ID: "job-00000001", OwnerID: "usr-a", Description: "a", Status: StatusAnalyzing, CreatedAt: base})
	seedJob(t, db, models.Job{ID: "job-00000002", OwnerID: "usr-a", Description: "b", Status: StatusError, CreatedAt: base.Add(time.Minute)})
	seedJob(t, db, models.Job{ID: "job-00000003", OwnerID: "usr-a", Description: "c", Status: StatusAssigned, CreatedAt: base.Add(2 * time.Minute)})
	seedJob(t, db, models.Job{ID: "job-00000004", OwnerID: "usr-a", Description: "d", Status: StatusCompleted, CreatedAt: base.Add(3 * time.Minute)})

	jobs, err := ListOpen(db)
	if err != nil {
		t.Fatalf("ListOpen: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("ListOpen returned %d jobs, want 2", len(jobs))
	}
	// Newest first; error-status jobs stay in the feed.
	if jobs[0].ID != "job-00000002" || jobs[1].ID != "job-00000001" {
		t.Errorf("order = [%s, %s]", jobs[0].ID, jobs[1].ID)
	}
}

func TestListForOwnerAndWorker(t *testing.T) {
	db := openTestDB(t)
	seedJob(t, db, models.Job{ID: "job-00000001", OwnerID: "usr-a", Description: "a"})
	seedJob(t, db, models.Job{ID: "job-00000002", OwnerID: "usr-b", Description: "b", Status: StatusAssigned, WorkerID: "usr-w"})

	mine, err := ListForOwner(db, "usr-a")
	if err != nil {
		t.Fatalf("ListForOwner: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != "job-00000001" {
		t.Errorf("ListForOwner = %v", mine)
	}

	assigned, err := ListForWorker(db, "usr-w")
	if err != nil {
		t.Fatalf("ListForWorker: %v", err)
	}
	if len(assigned) != 1 || assigned[0].ID != "job-00000002" {
		t.Errorf("ListForWorker = %v", assigned)
	}

	if _, err := ListForOwner(db, ""); err == nil {
		t.Error("ListForOwner with empty ID should fail")
	}
}
