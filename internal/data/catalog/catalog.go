// Package catalog holds the built-in learning paths and objective templates
// and seeds them into the database.
package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	types "github.com/yungbote/leetcoach-backend/internal/domain"
	"github.com/yungbote/leetcoach-backend/internal/modules/coach/pacing"
	"github.com/yungbote/leetcoach-backend/internal/platform/dbctx"
	"github.com/yungbote/leetcoach-backend/internal/platform/logger"
)

// catalogDirEnv points at a directory with paths.yaml and templates.yaml that
// replace the embedded copies.
const catalogDirEnv = "CATALOG_DIR"

//go:embed paths.yaml templates.yaml
var catalogFS embed.FS

type yamlPaths struct {
	Paths []yamlPath `yaml:"paths"`
}

type yamlPath struct {
	ID          string               `yaml:"id"`
	Name        string               `yaml:"name"`
	Description string               `yaml:"description"`
	Categories  []types.PathCategory `yaml:"categories"`
}

type yamlTemplates struct {
	Templates []yamlTemplate `yaml:"templates"`
}

type yamlTemplate struct {
	ID                 string                 `yaml:"id"`
	Name               string                 `yaml:"name"`
	Company            string                 `yaml:"company"`
	Role               string                 `yaml:"role"`
	Level              string                 `yaml:"level"`
	Description        string                 `yaml:"description"`
	EstimatedWeeks     int                    `yaml:"estimated_weeks"`
	RecommendedPathIDs []string               `yaml:"recommended_path_ids"`
	RequiredSkills     []pacing.RequiredSkill `yaml:"required_skills"`
}

type Catalog struct {
	Paths     []*types.LearningPath
	Templates []*types.ObjectiveTemplate
}

// Load parses the catalog, preferring CATALOG_DIR over the embedded files.
func Load() (*Catalog, error) {
	rawPaths, err := readFile("paths.yaml")
	if err != nil {
		return nil, err
	}
	rawTemplates, err := readFile("templates.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(rawPaths, rawTemplates)
}

func Parse(rawPaths, rawTemplates []byte) (*Catalog, error) {
	var yp yamlPaths
	if err := yaml.Unmarshal(rawPaths, &yp); err != nil {
		return nil, fmt.Errorf("parse paths: %w", err)
	}
	var yt yamlTemplates
	if err := yaml.Unmarshal(rawTemplates, &yt); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	out := &Catalog{}
	for _, p := range yp.Paths {
		lp, err := p.model()
		if err != nil {
			return nil, err
		}
		out.Paths = append(out.Paths, lp)
	}
	for _, t := range yt.Templates {
		ot, err := t.model()
		if err != nil {
			return nil, err
		}
		out.Templates = append(out.Templates, ot)
	}
	return out, nil
}

func (p yamlPath) model() (*types.LearningPath, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, fmt.Errorf("path %q: invalid id: %w", p.Name, err)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("path %s: name required", id)
	}
	seen := map[string]bool{}
	for _, c := range p.Categories {
		for _, prob := range c.Problems {
			if prob.Slug == "" {
				return nil, fmt.Errorf("path %q category %q: empty slug", p.Name, c.Name)
			}
			if seen[prob.Slug] {
				return nil, fmt.Errorf("path %q: duplicate slug %q", p.Name, prob.Slug)
			}
			seen[prob.Slug] = true
		}
	}
	cats, err := json.Marshal(p.Categories)
	if err != nil {
		return nil, err
	}
	return &types.LearningPath{
		ID:          id,
		Name:        p.Name,
		Description: p.Description,
		Categories:  datatypes.JSON(cats),
	}, nil
}

func (t yamlTemplate) model() (*types.ObjectiveTemplate, error) {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return nil, fmt.Errorf("template %q: invalid id: %w", t.Name, err)
	}
	pathIDs := make([]string, 0, len(t.RecommendedPathIDs))
	for _, raw := range t.RecommendedPathIDs {
		pid, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("template %q: invalid path id %q: %w", t.Name, raw, err)
		}
		pathIDs = append(pathIDs, pid.String())
	}
	weeks := t.EstimatedWeeks
	if weeks <= 0 {
		weeks = 12
	}
	return &types.ObjectiveTemplate{
		ID:                 id,
		Name:               t.Name,
		Company:            t.Company,
		Role:               t.Role,
		Level:              t.Level,
		Description:        t.Description,
		RequiredSkills:     datatypes.JSON(pacing.EncodeRequiredSkills(t.RequiredSkills)),
		RecommendedPathIDs: types.EncodeStrings(pathIDs),
		EstimatedWeeks:     weeks,
	}, nil
}

// PathStore and TemplateStore are the writes Seed needs.
type PathStore interface {
	Upsert(dbc dbctx.Context, p *types.LearningPath) error
}

type TemplateStore interface {
	Upsert(dbc dbctx.Context, t *types.ObjectiveTemplate) error
}

// Seed upserts every path and template. Re-running it is safe.
func Seed(dbc dbctx.Context, log *logger.Logger, c *Catalog, paths PathStore, templates TemplateStore) error {
	if c == nil {
		return errors.New("catalog: nil catalog")
	}
	for _, p := range c.Paths {
		if err := paths.Upsert(dbc, p); err != nil {
			return fmt.Errorf("seed path %q: %w", p.Name, err)
		}
	}
	for _, t := range c.Templates {
		if err := templates.Upsert(dbc, t); err != nil {
			return fmt.Errorf("seed template %q: %w", t.Name, err)
		}
	}
	if log != nil {
		log.Info("catalog seeded", "paths", len(c.Paths), "templates", len(c.Templates))
	}
	return nil
}

func readFile(name string) ([]byte, error) {
	if dir := strings.TrimSpace(os.Getenv(catalogDirEnv)); dir != "" {
		return os.ReadFile(filepath.Join(dir, name))
	}
	return catalogFS.ReadFile(name)
}
