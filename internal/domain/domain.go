package domain

import (
	"github.com/yungbote/leetcoach-backend/internal/domain/coach"
)

const (
	ReviewKindProblem      = coach.ReviewKindProblem
	ReviewKindLanguage     = coach.ReviewKindLanguage
	ReviewKindSystemDesign = coach.ReviewKindSystemDesign

	GoalStatusActive    = coach.GoalStatusActive
	GoalStatusPaused    = coach.GoalStatusPaused
	GoalStatusCompleted = coach.GoalStatusCompleted

	DifficultyEasy   = coach.DifficultyEasy
	DifficultyMedium = coach.DifficultyMedium
	DifficultyHard   = coach.DifficultyHard

	SubmissionAccepted = coach.SubmissionAccepted

	MaxRegenerations          = coach.MaxRegenerations
	GenerationSourceGenerator = coach.GenerationSourceGenerator
	GenerationSourceFallback  = coach.GenerationSourceFallback

	DateLayout = coach.DateLayout
)

var DefaultPathID = coach.DefaultPathID

type (
	ReviewItem     = coach.ReviewItem
	ReviewSchedule = coach.ReviewSchedule

	Goal              = coach.Goal
	ObjectiveTemplate = coach.ObjectiveTemplate

	SkillScore          = coach.SkillScore
	Submission          = coach.Submission
	ProblemAttemptStats = coach.ProblemAttemptStats
	UserStreak          = coach.UserStreak
	UserSettings        = coach.UserSettings
	UserOnboarding      = coach.UserOnboarding

	LearningPath     = coach.LearningPath
	PathCategory     = coach.PathCategory
	PathProblem      = coach.PathProblem
	UserPathProgress = coach.UserPathProgress

	DailyMission   = coach.DailyMission
	MissionProblem = coach.MissionProblem
)

var (
	DateKey       = coach.DateKey
	StartOfDay    = coach.StartOfDay
	DecodeStrings = coach.DecodeStrings
	EncodeStrings = coach.EncodeStrings
)
