package seeds

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/csc-helpdesk/csc/internal/domain/category"
	"github.com/csc-helpdesk/csc/internal/domain/setting"
	vo "github.com/csc-helpdesk/csc/internal/domain/ticket/valueobjects"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

// File is the layout of configs/seed.yaml.
type File struct {
	Settings   []SettingSeed  `yaml:"settings"`
	Categories []CategorySeed `yaml:"categories"`
}

type SettingSeed struct {
	Key         string `yaml:"key"`
	Value       string `yaml:"value"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Public      bool   `yaml:"public"`
}

type CategorySeed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Area        string `yaml:"area"`
	SLAHours    int    `yaml:"sla_hours"`
}

// Result counts rows written by a seeding run.
type Result struct {
	Settings   int
	Categories int
}

// Seeder inserts default settings and categories. Existing rows are left
// untouched so admins' edits survive restarts.
type Seeder struct {
	settings   setting.Repository
	categories category.Repository
	logger     logger.Interface
}

func NewSeeder(settings setting.Repository, categories category.Repository, logger logger.Interface) *Seeder {
	return &Seeder{settings: settings, categories: categories, logger: logger}
}

func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

func (s *Seeder) Seed(ctx context.Context, f *File) (*Result, error) {
	res := &Result{}

	for _, seed := range f.Settings {
		valueType := setting.ValueType(seed.Type)
		if valueType == "" {
			valueType = setting.ValueTypeString
		}
		st, err := setting.NewSetting(seed.Key, seed.Value, valueType, seed.Description, seed.Public)
		if err != nil {
			return res, fmt.Errorf("invalid setting seed %q: %w", seed.Key, err)
		}
		created, err := s.settings.CreateIfMissing(ctx, st)
		if err != nil {
			return res, err
		}
		if created {
			res.Settings++
		}
	}

	for _, seed := range f.Categories {
		area, err := vo.NewArea(seed.Area)
		if err != nil {
			return res, fmt.Errorf("invalid category seed %q: %w", seed.Name, err)
		}
		c, err := category.NewCategory(seed.Name, seed.Description, area, seed.SLAHours)
		if err != nil {
			return res, fmt.Errorf("invalid category seed %q: %w", seed.Name, err)
		}
		if err := s.categories.Create(ctx, c); err != nil {
			if stderrors.Is(err, category.ErrDuplicateName) {
				continue
			}
			return res, err
		}
		res.Categories++
	}

	s.logger.Infow("seed data applied", "settings_created", res.Settings, "categories_created", res.Categories)
	return res, nil
}
