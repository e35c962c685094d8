package coach

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxRegenerations caps explicit regenerate calls per (user, date).
const MaxRegenerations = 3

const (
	GenerationSourceGenerator = "generator"
	GenerationSourceFallback  = "fallback"
)

// DailyMission is the persisted practice set for one user and calendar date.
type DailyMission struct {
	ID                   uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_mission_user_date,priority:1" json:"user_id"`
	MissionDate          string           `gorm:"column:mission_date;type:varchar(10);not null;uniqueIndex:idx_mission_user_date,priority:2" json:"mission_date"`
	ObjectiveTitle       string           `gorm:"column:objective_title;not null" json:"objective_title"`
	ObjectiveDescription string           `gorm:"column:objective_description" json:"objective_description"`
	ObjectiveSkillTags   datatypes.JSON   `gorm:"column:objective_skill_tags" json:"objective_skill_tags"`
	BalanceExplanation   string           `gorm:"column:balance_explanation" json:"balance_explanation,omitempty"`
	PacingStatus         string           `gorm:"column:pacing_status" json:"pacing_status,omitempty"`
	PacingNote           string           `gorm:"column:pacing_note" json:"pacing_note,omitempty"`
	RegeneratedCount     int              `gorm:"column:regenerated_count;not null;default:0" json:"regenerated_count"`
	GenerationSource     string           `gorm:"column:generation_source" json:"generation_source"`
	GeneratedAt          time.Time        `gorm:"column:generated_at;not null" json:"generated_at"`
	Problems             []MissionProblem `gorm:"foreignKey:MissionID;constraint:OnDelete:CASCADE" json:"problems"`
	CreatedAt            time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time        `gorm:"not null" json:"updated_at"`
}

func (DailyMission) TableName() string { return "daily_missions" }

func (m *DailyMission) BeforeCreate(tx *gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

func (m *DailyMission) CanRegenerate() bool {
	return m.RegeneratedCount < MaxRegenerations
}

// MissionProblem is one ordered entry of a mission. Completion is derived at
// read time and never stored.
type MissionProblem struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MissionID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"mission_id"`
	Position            int            `gorm:"column:position;not null" json:"position"`
	ProblemID           string         `gorm:"column:problem_id;not null" json:"problem_id"`
	Title               string         `gorm:"column:title" json:"title"`
	Source              string         `gorm:"column:source" json:"source"`
	Reasoning           string         `gorm:"column:reasoning" json:"reasoning"`
	Priority            int            `gorm:"column:priority;not null;default:0" json:"priority"`
	Skills              datatypes.JSON `gorm:"column:skills" json:"skills"`
	EstimatedDifficulty string         `gorm:"column:estimated_difficulty" json:"estimated_difficulty,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
}

func (MissionProblem) TableName() string { return "mission_problems" }

func (p *MissionProblem) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
