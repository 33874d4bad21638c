package httpapi

import (
	"time"

	"github.com/salemkamoundev/Snay3ia/internal/models"
)

// jobView is the wire shape of a job.
type jobView struct {
	ID            string             `json:"id"`
	Description   string             `json:"description"`
	MediaURLs     []string           `json:"media_urls"`
	Status        string             `json:"status"`
	OwnerID       string             `json:"owner_id"`
	OwnerEmail    string             `json:"owner_email,omitempty"`
	WorkerID      string             `json:"worker_id,omitempty"`
	AcceptedPrice float64            `json:"accepted_price,omitempty"`
	AcceptedAt    *time.Time         `json:"accepted_at,omitempty"`
	AIResult      *models.AIAnalysis `json:"ai_result,omitempty"`
	ErrorMessage  string             `json:"error_message,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Proposals     []proposalView     `json:"proposals"`
}

// proposalView is the wire shape of a proposal.
type proposalView struct {
	JobID       string    `json:"job_id"`
	WorkerID    string    `json:"worker_id"`
	WorkerName  string    `json:"worker_name"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// notificationView is the wire shape of an inbox entry.
type notificationView struct {
	ID        uint      `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	JobID     string    `json:"job_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// messageView is the wire shape of a chat message.
type messageView struct {
	ID         uint      `json:"id"`
	JobID      string    `json:"job_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Text       string    `json:"text"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// profileView is the wire shape of a worker profile.
type profileView struct {
	UserID        string       `json:"user_id"`
	DisplayName   string       `json:"display_name"`
	Specialty     string       `json:"specialty,omitempty"`
	Rating        float64      `json:"rating"`
	CompletedJobs int          `json:"completed_jobs"`
	Reviews       []reviewView `json:"reviews"`
}

// reviewView is the wire shape of a review.
type reviewView struct {
	Author      string    `json:"author,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	AudioURL    string    `json:"audio_url,omitempty"`
	Rating      int       `json:"rating"`
	IsSatisfied bool      `json:"is_satisfied"`
	CreatedAt   time.Time `json:"created_at"`
}

func toJobView(j *models.Job) jobView {
	v := jobView{
		ID:            j.ID,
		Description:   j.Description,
		MediaURLs:     j.MediaURLList(),
		Status:        j.Status,
		OwnerID:       j.OwnerID,
		OwnerEmail:    j.OwnerEmail,
		WorkerID:      j.WorkerID,
		AcceptedPrice: j.AcceptedPrice,
		AcceptedAt:    j.AcceptedAt,
		AIResult:      j.Analysis(),
		ErrorMessage:  j.ErrorMessage,
		CreatedAt:     j.CreatedAt,
		Proposals:     make([]proposalView, 0, len(j.Proposals)),
	}
	for i := range j.Proposals {
		v.Proposals = append(v.Proposals, toProposalView(&j.Proposals[i]))
	}
	return v
}

func toJobViews(jobs []models.Job) []jobView {
	views := make([]jobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, toJobView(&jobs[i]))
	}
	return views
}

func toProposalView(p *models.Proposal) proposalView {
	return proposalView{
		JobID:       p.JobID,
		WorkerID:    p.WorkerID,
		WorkerName:  p.WorkerName,
		Price:       p.Price,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

func toNotificationViews(ns []models.Notification) []notificationView {
	views := make([]notificationView, 0, len(ns))
	for _, n := range ns {
		views = append(views, notificationView{
			ID:        n.ID,
			Message:   n.Message,
			Type:      n.Type,
			JobID:     n.JobID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return views
}

func toMessageViews(msgs []models.ChatMessage) []messageView {
	views := make([]messageView, 0, len(msgs))
	for _, m := range msgs {
		views = append(views, toMessageView(&m))
	}
	return views
}

func toMessageView(m *models.ChatMessage) messageView {
	return messageView{
		ID:         m.ID,
		JobID:      m.JobID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Text:       m.Text,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func toProfileView(p *models.WorkerProfile) profileView {
	v := profileView{
		UserID:        p.UserID,
		DisplayName:   p.DisplayName,
		Specialty:     p.Specialty,
		Rating:        p.Rating,
		CompletedJobs: p.CompletedJobs,
		Reviews:       make([]reviewView, 0, len(p.Reviews)),
	}
	for _, r := range p.Reviews {
		v.Reviews = append(v.Reviews, reviewView{
			Author:      r.Author,
			Comment:     r.Comment,
			AudioURL:    r.AudioURL,
			Rating:      r.Rating,
			IsSatisfied: r.IsSatisfied,
			CreatedAt:   r.CreatedAt,
		})
	}
	return v
}
