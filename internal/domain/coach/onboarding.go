package coach

import (
	"time"

	"github.com/google/uuid"
)

// UserOnboarding tracks the first-run checklist. Skipped steps are stored
// as done.
type UserOnboarding struct {
	UserID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	HasObjective          bool       `gorm:"column:has_objective;not null;default:false" json:"has_objective"`
	ExtensionInstalled    bool       `gorm:"column:extension_installed;not null;default:false" json:"extension_installed"`
	HistoryImported       bool       `gorm:"column:history_imported;not null;default:false" json:"history_imported"`
	FirstPathSelected     bool       `gorm:"column:first_path_selected;not null;default:false" json:"first_path_selected"`
	OnboardingComplete    bool       `gorm:"column:onboarding_complete;not null;default:false" json:"onboarding_complete"`
	CurrentStep           int        `gorm:"column:current_step;not null;default:1" json:"current_step"`
	ExtensionVerifiedAt   *time.Time `gorm:"column:extension_verified_at" json:"extension_verified_at,omitempty"`
	HistoryImportedAt     *time.Time `gorm:"column:history_imported_at" json:"history_imported_at,omitempty"`
	ProblemsImportedCount int        `gorm:"column:problems_imported_count;not null;default:0" json:"problems_imported_count"`
	CreatedAt             time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserOnboarding) TableName() string { return "user_onboarding" }
