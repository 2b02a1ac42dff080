package db

import (
	"context"
	"fmt"
	"lab_inventory/models"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedData is the reference data file: categories, lab seats and students.
type SeedData struct {
	Categories []SeedCategory `yaml:"categories"`
	Locations  []SeedLocation `yaml:"locations"`
	Students   []SeedStudent  `yaml:"students"`
}

type SeedCategory struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type SeedLocation struct {
	Lab      string `yaml:"lab"`
	Row      int    `yaml:"row"`
	Position int    `yaml:"position"`
	X        *int   `yaml:"x"`
	Y        *int   `yaml:"y"`
	Inactive bool   `yaml:"inactive"`
}

type SeedStudent struct {
	Name       string `yaml:"name"`
	Number     string `yaml:"number"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	Department string `yaml:"department"`
	Inactive   bool   `yaml:"inactive"`
}

func LoadSeedFile(path string) (*SeedData, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var sd SeedData
	if err := yaml.Unmarshal(b, &sd); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &sd, nil
}

type SeedCounts struct {
	Categories int
	Locations  int
	Students   int
}

// SeedReference upserts reference rows on their natural keys, so running it
// again with an edited file updates rows in place.
func (r *Repo) SeedReference(ctx context.Context, sd *SeedData) (SeedCounts, error) {
	var n SeedCounts
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range sd.Categories {
			if strings.TrimSpace(c.Name) == "" {
				return invalid("categories.name", "is required")
			}
			row := models.Category{Name: strings.TrimSpace(c.Name), Icon: c.Icon}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"icon"}),
			}).Create(&row).Error; err != nil {
				return err
			}
			n.Categories++
		}

		for _, l := range sd.Locations {
			if strings.TrimSpace(l.Lab) == "" {
				return invalid("locations.lab", "is required")
			}
			row := models.Location{
				LabName:  strings.TrimSpace(l.Lab),
				Row:      l.Row,
				Position: l.Position,
				X:        l.X,
				Y:        l.Y,
				IsActive: !l.Inactive,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "lab_name"}, {Name: "lab_row"}, {Name: "lab_position"}},
				DoUpdates: clause.AssignmentColumns([]string{"coordinates_x", "coordinates_y", "is_active"}),
			}).Create(&row).Error; err != nil {
				return err
			}
			n.Locations++
		}

		for _, s := range sd.Students {
			if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.Number) == "" {
				return invalid("students", "name and number are required")
			}
			row := models.Student{
				Name:       strings.TrimSpace(s.Name),
				Number:     strings.TrimSpace(s.Number),
				Email:      s.Email,
				Phone:      s.Phone,
				Department: s.Department,
				IsActive:   !s.Inactive,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "student_number"}},
				DoUpdates: clause.AssignmentColumns([]string{"student_name", "email", "phone", "department", "is_active", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
			n.Students++
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, wrap("seed reference data", err)
	}
	return n, nil
}
