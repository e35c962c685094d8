package coach

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PathProblem struct {
	Slug       string `json:"slug" yaml:"slug"`
	Title      string `json:"title" yaml:"title"`
	Difficulty string `json:"difficulty,omitempty" yaml:"difficulty"`
	Order      int    `json:"order" yaml:"order"`
}

type PathCategory struct {
	Name     string        `json:"name" yaml:"name"`
	Order    int           `json:"order" yaml:"order"`
	Problems []PathProblem `json:"problems" yaml:"problems"`
}

// LearningPath is a curated, ordered problem list split into categories.
type LearningPath struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	Categories  datatypes.JSON `gorm:"column:categories" json:"categories"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (LearningPath) TableName() string { return "learning_paths" }

func (p *LearningPath) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// OrderedCategories decodes Categories sorted by category order, with each
// category's problems sorted by problem order.
func (p *LearningPath) OrderedCategories() []PathCategory {
	if p == nil || len(p.Categories) == 0 {
		return nil
	}
	var cats []PathCategory
	if err := json.Unmarshal(p.Categories, &cats); err != nil {
		return nil
	}
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })
	for i := range cats {
		probs := cats[i].Problems
		sort.SliceStable(probs, func(a, b int) bool { return probs[a].Order < probs[b].Order })
	}
	return cats
}

func (p *LearningPath) TotalProblems() int {
	n := 0
	for _, c := range p.OrderedCategories() {
		n += len(c.Problems)
	}
	return n
}

type UserPathProgress struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_path_progress_user_path,priority:1" json:"user_id"`
	PathID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_path_progress_user_path,priority:2" json:"path_id"`
	CompletedProblems datatypes.JSON `gorm:"column:completed_problems" json:"completed_problems"`
	CurrentCategory   string         `gorm:"column:current_category" json:"current_category,omitempty"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserPathProgress) TableName() string { return "user_path_progress" }

func (p *UserPathProgress) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

func (p *UserPathProgress) Completed() []string {
	if p == nil {
		return nil
	}
	return DecodeStrings(p.CompletedProblems)
}

// DecodeStrings reads a JSON string array, tolerating empty or invalid input.
func DecodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// EncodeStrings writes a JSON string array; nil encodes as [].
func EncodeStrings(in []string) datatypes.JSON {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return datatypes.JSON(b)
}
