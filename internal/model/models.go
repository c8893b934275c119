package model

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is a person moving through the hiring pipeline.
// Status is stored as free text so legacy values survive; see pipeline.Resolve.
type Candidate struct {
	ID              uuid.UUID `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Location        string    `json:"location"`
	JobTitle        string    `json:"jobTitle"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experienceYears"`
	Source          string    `json:"source"`
	Status          string    `json:"status"`
	AssignedTo      string    `json:"assignedTo,omitempty"`
	CreatedBy       string    `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Version         int64     `json:"version"`
}

// FullName joins first and last name
func (c Candidate) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Submission records a candidate being submitted to a client or vendor
type Submission struct {
	ID               uuid.UUID `json:"id"`
	CandidateID      uuid.UUID `json:"candidateId"`
	SubmissionDate   time.Time `json:"submissionDate"`
	SubmissionNumber int       `json:"submissionNumber"`
	CreatedBy        string    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Interview levels
const (
	LevelL1 = "L1"
	LevelL2 = "L2"
	LevelL3 = "L3"
)

// Interview statuses
const (
	InterviewScheduled = "Scheduled"
	InterviewCompleted = "Completed"
	InterviewCancelled = "Cancelled"
)

// Interview is a scheduled conversation with a candidate
type Interview struct {
	ID             uuid.UUID `json:"id"`
	CandidateID    uuid.UUID `json:"candidateId"`
	ScheduledDate  time.Time `json:"scheduledDate"`
	InterviewLevel string    `json:"interviewLevel"`
	Interviewer    string    `json:"interviewer"`
	InterviewLink  string    `json:"interviewLink,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Status         string    `json:"status"`
	CreatedBy      string    `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Offer statuses
const (
	OfferDraft    = "draft"
	OfferPending  = "pending"
	OfferAccepted = "accepted"
	OfferRejected = "rejected"
	OfferExpired  = "expired"
)

func ValidOfferStatus(s string) bool {
	switch s {
	case OfferDraft, OfferPending, OfferAccepted, OfferRejected, OfferExpired:
		return true
	}
	return false
}

// OfferDetail is one offer extended to a candidate
type OfferDetail struct {
	ID            uuid.UUID  `json:"id"`
	CandidateID   uuid.UUID  `json:"candidateId"`
	CandidateName string     `json:"candidateName"`
	JobTitle      string     `json:"jobTitle"`
	JobLocation   string     `json:"jobLocation"`
	PayRate       string     `json:"payRate"`
	VendorName    string     `json:"vendorName"`
	ClientName    string     `json:"clientName"`
	StartDate     *time.Time `json:"startDate,omitempty"`
	Status        string     `json:"status"`
	CreatedBy     string     `json:"createdBy"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// Note is a free-text remark on a candidate
type Note struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidateId"`
	Content     string    `json:"content"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Attachment is a file stored against a candidate (resume, ID, contract)
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidateId"`
	FileName    string    `json:"fileName"`
	DisplayName string    `json:"displayName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	StorageKey  string    `json:"-"`
	TextPreview string    `json:"textPreview,omitempty"`
	UploadedBy  string    `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Background check statuses
const (
	CheckPending    = "pending"
	CheckInProgress = "in_progress"
	CheckClear      = "clear"
	CheckConsider   = "consider"
	CheckFailed     = "failed"
)

func ValidCheckStatus(s string) bool {
	switch s {
	case CheckPending, CheckInProgress, CheckClear, CheckConsider, CheckFailed:
		return true
	}
	return false
}

// BackgroundCheck tracks a screening ordered from a provider
type BackgroundCheck struct {
	ID          uuid.UUID  `json:"id"`
	CandidateID uuid.UUID  `json:"candidateId"`
	Provider    string     `json:"provider"`
	CheckType   string     `json:"checkType"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requestedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// StatusHistory tracks pipeline stage changes for the timeline
type StatusHistory struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidateId"`
	FromStatus  string    `json:"fromStatus"`
	ToStatus    string    `json:"toStatus"`
	ChangedBy   string    `json:"changedBy"`
	ChangedAt   time.Time `json:"changedAt"`
	Note        string    `json:"note,omitempty"`
}

// CandidateDetail is the full aggregate re-read after every mutation
type CandidateDetail struct {
	Candidate
	Submissions      []Submission      `json:"submissions"`
	Interviews       []Interview       `json:"interviews"`
	OfferDetails     []OfferDetail     `json:"offerDetails"`
	Notes            []Note            `json:"notes"`
	Attachments      []Attachment      `json:"attachments"`
	BackgroundChecks []BackgroundCheck `json:"backgroundChecks"`
}

// ── API envelope ─────────────────────────────────────

// Pagination describes a server-paginated list
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Response is the JSON envelope every endpoint returns
type Response struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Title      string      `json:"title,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}
