package coach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

type DailyMissionRepo interface {
	GetByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date string) (*types.DailyMission, error)
	Create(dbc dbctx.Context, m *types.DailyMission) error
	ReplaceIfCount(dbc dbctx.Context, m *types.DailyMission, expectedCount int) (bool, error)
}

type dailyMissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyMissionRepo(db *gorm.DB, baseLog *logger.Logger) DailyMissionRepo {
	return &dailyMissionRepo{db: db, log: baseLog.With("repo", "DailyMissionRepo")}
}

func (r *dailyMissionRepo) GetByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date string) (*types.DailyMission, error) {
	var m types.DailyMission
	if err := dbc.DB(r.db).
		Preload("Problems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ? AND mission_date = ?", userID, date).
		Limit(1).
		Find(&m).Error; err != nil {
		return nil, err
	}
	if m.ID == uuid.Nil {
		return nil, nil
	}
	return &m, nil
}

// Create inserts the mission and its problems. ErrConflict means another
// writer created the (user, date) row first.
func (r *dailyMissionRepo) Create(dbc dbctx.Context, m *types.DailyMission) error {
	return mapWriteErr(dbc.DB(r.db).Transaction(func(txx *gorm.DB) error {
		return txx.Create(m).Error
	}))
}

func (r *dailyMissionRepo) ReplaceIfCount(dbc dbctx.Context, m *types.DailyMission, expectedCount int) (bool, error) {
	replaced := false
	err := dbc.DB(r.db).Transaction(func(txx *gorm.DB) error {
		res := txx.Model(&types.DailyMission{}).
			Where("id = ? AND regenerated_count = ?", m.ID, expectedCount).
			Updates(map[string]interface{}{
				"objective_title":       m.ObjectiveTitle,
				"objective_description": m.ObjectiveDescription,
				"objective_skill_tags":  m.ObjectiveSkillTags,
				"balance_explanation":   m.BalanceExplanation,
				"pacing_status":         m.PacingStatus,
				"pacing_note":           m.PacingNote,
				"regenerated_count":     m.RegeneratedCount,
				"generation_source":     m.GenerationSource,
				"generated_at":          m.GeneratedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := txx.Where("mission_id = ?", m.ID).Delete(&types.MissionProblem{}).Error; err != nil {
			return err
		}
		if len(m.Problems) > 0 {
			for i := range m.Problems {
				m.Problems[i].ID = uuid.Nil
				m.Problems[i].MissionID = m.ID
			}
			if err := txx.Create(&m.Problems).Error; err != nil {
				return err
			}
		}
		replaced = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return replaced, nil
}
