package db

import (
	"context"
	"lab_inventory/models"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
categories:
  - name: Laptop
    icon: "💻"
  - name: Monitor
    icon: "🖥"
locations:
  - {lab: Lab B, row: 1, position: 2}
  - {lab: Lab B, row: 1, position: 1, x: 10, y: 20}
  - {lab: Lab B, row: 2, position: 1, inactive: true}
students:
  - {name: Carol Ng, number: S100, department: CS}
  - {name: Dan Ho, number: S101, inactive: true}
`

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestSeedReference(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sd, err := LoadSeedFile(writeSeed(t, seedYAML))
	require.NoError(t, err)
	n, err := f.repo.SeedReference(ctx, sd)
	require.NoError(t, err)
	assert.Equal(t, SeedCounts{Categories: 2, Locations: 3, Students: 2}, n)

	// rerun is an upsert, not a duplicate
	_, err = f.repo.SeedReference(ctx, sd)
	require.NoError(t, err)

	cats, err := f.repo.ListCategories(ctx)
	require.NoError(t, err)
	names := []string{}
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Cable", "Laptop", "Monitor"}, names)

	locs, err := f.repo.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 3) // Lab A seat from the fixture + two active Lab B seats
	assert.Equal(t, "Lab A", locs[0].LabName)
	assert.Equal(t, 1, locs[1].Position)
	require.NotNil(t, locs[1].X)
	assert.Equal(t, 10, *locs[1].X)

	students, err := f.repo.ListActiveStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, "Alice Tan", students[0].Name)
	assert.Equal(t, "Carol Ng", students[2].Name)
}

func TestLoadSeedFileErrors(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadSeedFile(writeSeed(t, "categories: [oops"))
	assert.Error(t, err)
}

func TestSeedReferenceRejectsBlankNames(t *testing.T) {
	f := newFixture(t)
	_, err := f.repo.SeedReference(context.Background(), &SeedData{
		Categories: []SeedCategory{{Name: "Tablet"}, {Name: " "}},
	})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	cats, err := f.repo.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 2, "nothing from the failed seed is kept")
}

func TestFloorPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty := models.Location{LabName: "Lab A", Row: 1, Position: 2, IsActive: true}
	other := models.Location{LabName: "Lab C", Row: 1, Position: 1, IsActive: true}
	require.NoError(t, f.repo.DB.Create(&empty).Error)
	require.NoError(t, f.repo.DB.Create(&other).Error)

	_, err := f.repo.Update(ctx, 1, AssetInput{LocationID: ptr(f.seat.ID)})
	require.NoError(t, err)
	_, err = f.repo.Update(ctx, 2, AssetInput{LocationID: ptr(f.seat.ID)})
	require.NoError(t, err)
	require.NoError(t, f.repo.Retire(ctx, 2))

	seats, err := f.repo.FloorPlan(ctx, "Lab A")
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, f.seat.ID, seats[0].ID)
	require.Len(t, seats[0].Assets, 1, "retired assets are not placed")
	assert.Equal(t, uint(1), seats[0].Assets[0].ID)
	assert.NotNil(t, seats[1].Assets)
	assert.Empty(t, seats[1].Assets)

	all, err := f.repo.FloorPlan(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := f.repo.FloorPlan(ctx, "Lab Z")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListStudents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.repo.DB.Create(&models.Student{Name: "Under_Score", Number: "S900", IsActive: true}).Error)
	require.NoError(t, f.repo.DB.Create(&models.Student{Name: "Gone", Number: "S901"}).Error)

	res, err := f.repo.ListStudents(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)

	res, err = f.repo.ListStudents(ctx, "s002", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Students, 1)
	assert.Equal(t, "Bob Lee", res.Students[0].Name)

	res, err = f.repo.ListStudents(ctx, "_", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Students, 1)
	assert.Equal(t, "Under_Score", res.Students[0].Name)

	res, err = f.repo.ListStudents(ctx, "", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	require.Len(t, res.Students, 1)

	s, err := f.repo.FindStudentByID(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "S001", s.Number)

	var ne *NotFoundError
	_, err = f.repo.FindStudentByID(ctx, 999)
	require.ErrorAs(t, err, &ne)
}
