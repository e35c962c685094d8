package coach

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	GoalStatusActive    = "active"
	GoalStatusPaused    = "paused"
	GoalStatusCompleted = "completed"
)

// Goal is a user's meta objective: a deadline-driven target that pacing is
// measured against.
type Goal struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index:idx_goal_user_status,priority:1" json:"user_id"`
	Title               string         `gorm:"column:title;not null" json:"title"`
	TargetCompany       string         `gorm:"column:target_company" json:"target_company"`
	TargetRole          string         `gorm:"column:target_role" json:"target_role"`
	TargetLevel         string         `gorm:"column:target_level" json:"target_level,omitempty"`
	StartedAt           time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	TargetDeadline      time.Time      `gorm:"column:target_deadline;not null" json:"target_deadline"`
	WeeklyProblemTarget int            `gorm:"column:weekly_problem_target;not null;default:25" json:"weekly_problem_target"`
	DailyProblemMinimum int            `gorm:"column:daily_problem_minimum;not null;default:4" json:"daily_problem_minimum"`
	RequiredSkills      datatypes.JSON `gorm:"column:required_skills" json:"required_skills"`
	PathIDs             datatypes.JSON `gorm:"column:path_ids" json:"path_ids"`
	TemplateID          *uuid.UUID     `gorm:"type:uuid;column:template_id" json:"template_id,omitempty"`
	Status              string         `gorm:"column:status;not null;default:active;index:idx_goal_user_status,priority:2" json:"status"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
}

func (Goal) TableName() string { return "meta_objectives" }

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// ObjectiveTemplate is a pre-built goal for a common interview target.
type ObjectiveTemplate struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string         `gorm:"column:name;not null" json:"name"`
	Company            string         `gorm:"column:company;not null;index" json:"company"`
	Role               string         `gorm:"column:role;not null" json:"role"`
	Level              string         `gorm:"column:level" json:"level,omitempty"`
	Description        string         `gorm:"column:description" json:"description,omitempty"`
	RequiredSkills     datatypes.JSON `gorm:"column:required_skills" json:"required_skills"`
	RecommendedPathIDs datatypes.JSON `gorm:"column:recommended_path_ids" json:"recommended_path_ids"`
	EstimatedWeeks     int            `gorm:"column:estimated_weeks;not null;default:12" json:"estimated_weeks"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (ObjectiveTemplate) TableName() string { return "objective_templates" }

func (t *ObjectiveTemplate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
