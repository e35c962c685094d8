package coach

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	SubmissionAccepted = "Accepted"
)

type SkillScore struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_skill_user_tag,priority:1" json:"user_id"`
	Tag           string     `gorm:"column:tag;not null;uniqueIndex:idx_skill_user_tag,priority:2" json:"tag"`
	Score         float64    `gorm:"column:score;not null;default:50" json:"score"`
	TotalAttempts int        `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
	SuccessRate   float64    `gorm:"column:success_rate;not null;default:0" json:"success_rate"`
	LastPracticed *time.Time `gorm:"column:last_practiced" json:"last_practiced,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (SkillScore) TableName() string { return "skill_scores" }

func (s *SkillScore) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// Submission is one judged attempt reported by the browser extension.
type Submission struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_submission_user_time,priority:1" json:"user_id"`
	ProblemSlug        string         `gorm:"column:problem_slug;not null;index" json:"problem_slug"`
	ProblemTitle       string         `gorm:"column:problem_title" json:"problem_title"`
	Difficulty         string         `gorm:"column:difficulty" json:"difficulty,omitempty"`
	Tags               datatypes.JSON `gorm:"column:tags" json:"tags"`
	Status             string         `gorm:"column:status;not null" json:"status"`
	Language           string         `gorm:"column:language" json:"language,omitempty"`
	Code               string         `gorm:"column:code" json:"code,omitempty"`
	AttemptNumber      int            `gorm:"column:attempt_number" json:"attempt_number,omitempty"`
	TimeElapsedSeconds int            `gorm:"column:time_elapsed_seconds" json:"time_elapsed_seconds,omitempty"`
	SubmittedAt        time.Time      `gorm:"column:submitted_at;not null;index:idx_submission_user_time,priority:2" json:"submitted_at"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (Submission) TableName() string { return "submissions" }

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (s *Submission) Accepted() bool { return s.Status == SubmissionAccepted }

// ProblemAttemptStats aggregates submissions per (user, problem).
type ProblemAttemptStats struct {
	ID                        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID                    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_attempt_user_problem,priority:1" json:"user_id"`
	ProblemSlug               string     `gorm:"column:problem_slug;not null;uniqueIndex:idx_attempt_user_problem,priority:2" json:"problem_slug"`
	ProblemTitle              string     `gorm:"column:problem_title" json:"problem_title"`
	Difficulty                string     `gorm:"column:difficulty" json:"difficulty,omitempty"`
	TotalAttempts             int        `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
	FailedAttempts            int        `gorm:"column:failed_attempts;not null;default:0" json:"failed_attempts"`
	FirstAttemptAt            time.Time  `gorm:"column:first_attempt_at;not null" json:"first_attempt_at"`
	FirstSuccessAt            *time.Time `gorm:"column:first_success_at" json:"first_success_at,omitempty"`
	TimeToFirstSuccessSeconds *int       `gorm:"column:time_to_first_success_seconds" json:"time_to_first_success_seconds,omitempty"`
	IsSlowSolve               bool       `gorm:"column:is_slow_solve;not null;default:false" json:"is_slow_solve"`
	IsStruggle                bool       `gorm:"column:is_struggle;not null;default:false" json:"is_struggle"`
	LastAttemptAt             time.Time  `gorm:"column:last_attempt_at;not null" json:"last_attempt_at"`
	CreatedAt                 time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt                 time.Time  `gorm:"not null" json:"updated_at"`
}

func (ProblemAttemptStats) TableName() string { return "problem_attempt_stats" }

func (s *ProblemAttemptStats) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

type UserStreak struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CurrentStreak    int       `gorm:"column:current_streak;not null;default:0" json:"current_streak"`
	LongestStreak    int       `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	LastActivityDate string    `gorm:"column:last_activity_date;type:varchar(10)" json:"last_activity_date"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStreak) TableName() string { return "user_streaks" }

type UserSettings struct {
	UserID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	CurrentPathID *uuid.UUID `gorm:"type:uuid;column:current_path_id" json:"current_path_id,omitempty"`
	DailyGoal     int        `gorm:"column:daily_goal;not null;default:5" json:"daily_goal"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserSettings) TableName() string { return "user_settings" }

func (s *Submission) TagList() []string { return DecodeStrings(s.Tags) }

func (s *Submission) HasTag(tag string) bool {
	for _, t := range s.TagList() {
		if t == tag {
			return true
		}
	}
	return false
}
