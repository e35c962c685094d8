package coach

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReviewKindProblem      = "problem"
	ReviewKindLanguage     = "language"
	ReviewKindSystemDesign = "system_design"
)

// ReviewItem is the spaced-repetition state of one subject for one user.
// SubjectKey is a problem slug, or "<kind>:<topic>" for exercise topics.
type ReviewItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_subject,priority:1;index:idx_review_user_due,priority:1" json:"user_id"`
	SubjectKey   string     `gorm:"column:subject_key;not null;uniqueIndex:idx_review_user_subject,priority:2" json:"subject_key"`
	Kind         string     `gorm:"column:kind;not null;default:problem" json:"kind"`
	Title        string     `gorm:"column:title" json:"title,omitempty"`
	Reason       string     `gorm:"column:reason" json:"reason,omitempty"`
	Priority     int        `gorm:"column:priority;not null;default:0" json:"priority"`
	NextReview   time.Time  `gorm:"column:next_review;not null;index:idx_review_user_due,priority:2" json:"next_review"`
	IntervalDays int        `gorm:"column:interval_days;not null;default:1" json:"interval_days"`
	ReviewCount  int        `gorm:"column:review_count;not null;default:0" json:"review_count"`
	LastReviewed *time.Time `gorm:"column:last_reviewed" json:"last_reviewed,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (ReviewItem) TableName() string { return "review_queue" }

func (r *ReviewItem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

// IsDue reports whether the item is due at now.
func (r *ReviewItem) IsDue(now time.Time) bool {
	return !r.NextReview.After(now)
}

// ReviewSchedule is the part of a ReviewItem a completion rewrites.
type ReviewSchedule struct {
	IntervalDays int
	NextReview   time.Time
	ReviewCount  int
	LastReviewed time.Time
}
