package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/leetcoach-backend/internal/data/repos/coach"
	"github.com/yungbote/leetcoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
)

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var def *types.LearningPath
	for _, p := range c.Paths {
		if p.ID == types.DefaultPathID {
			def = p
		}
	}
	if def == nil {
		t.Fatalf("default path missing from catalog")
	}
	if n := def.TotalProblems(); n != 150 {
		t.Fatalf("expected 150 problems, got %d", n)
	}
	cats := def.OrderedCategories()
	if cats[0].Name != "Arrays & Hashing" || cats[0].Problems[0].Slug != "contains-duplicate" {
		t.Fatalf("unexpected first category: %+v", cats[0])
	}

	if len(c.Templates) == 0 {
		t.Fatalf("expected templates")
	}
	skills, err := pacing.DecodeRequiredSkills(c.Templates[0].RequiredSkills)
	if err != nil || len(skills) == 0 {
		t.Fatalf("template skills: %v %v", skills, err)
	}
	if skills[0].Domain != "Array" {
		t.Fatalf("expected yaml order preserved, got %+v", skills)
	}
}

func TestParse_RejectsDuplicateSlugs(t *testing.T) {
	paths := []byte(`paths:
  - id: 11111111-1111-1111-1111-111111111150
    name: P
    categories:
      - name: A
        order: 1
        problems:
          - {slug: two-sum, title: Two Sum, order: 1}
          - {slug: two-sum, title: Again, order: 2}
`)
	if _, err := Parse(paths, []byte("templates: []")); err == nil {
		t.Fatalf("expected duplicate slug error")
	}
}

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: context.Background()}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	paths := coach.NewLearningPathRepo(db, log)
	templates := coach.NewObjectiveTemplateRepo(db, log)
	for i := 0; i < 2; i++ {
		if err := Seed(dbc, log, c, paths, templates); err != nil {
			t.Fatalf("Seed #%d: %v", i+1, err)
		}
	}

	got, err := paths.GetByID(dbc, types.DefaultPathID)
	if err != nil || got == nil || got.Name != "NeetCode 150" {
		t.Fatalf("seeded path: got=%v err=%v", got, err)
	}
	list, err := templates.List(dbc, "google")
	if err != nil || len(list) != 1 {
		t.Fatalf("templates by company: got=%d err=%v", len(list), err)
	}
}
