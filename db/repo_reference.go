package db

import (
	"context"
	"lab_inventory/models"
	"strings"
)

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&cs).Error; err != nil {
		return nil, wrap("list categories", err)
	}
	return cs, nil
}

// ListLocations returns active seats in grid order.
func (r *Repo) ListLocations(ctx context.Context) ([]models.Location, error) {
	var ls []models.Location
	if err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("lab_name ASC").Order("lab_row ASC").Order("lab_position ASC").
		Find(&ls).Error; err != nil {
		return nil, wrap("list locations", err)
	}
	return ls, nil
}

type FloorPlanSeat struct {
	models.Location
	Assets []AssetRow `json:"assets"`
}

// FloorPlan lays out the active seats of lab (every lab when empty) with the
// non-retired assets placed on each.
func (r *Repo) FloorPlan(ctx context.Context, lab string) ([]FloorPlanSeat, error) {
	q := r.DB.WithContext(ctx).Where("is_active = ?", true)
	if lab = strings.TrimSpace(lab); lab != "" {
		q = q.Where("lab_name = ?", lab)
	}
	var seats []models.Location
	if err := q.Order("lab_name ASC").Order("lab_row ASC").Order("lab_position ASC").
		Find(&seats).Error; err != nil {
		return nil, wrap("list floor plan seats", err)
	}
	if len(seats) == 0 {
		return []FloorPlanSeat{}, nil
	}

	ids := make([]uint, 0, len(seats))
	for _, s := range seats {
		ids = append(ids, s.ID)
	}
	var placed []AssetRow
	if err := r.assetRows(ctx).
		Where("a.location_id IN ? AND a.status <> ?", ids, models.AssetRetired).
		Order("a.id ASC").
		Scan(&placed).Error; err != nil {
		return nil, wrap("list placed assets", err)
	}

	bySeat := make(map[uint][]AssetRow, len(seats))
	for _, a := range placed {
		bySeat[*a.LocationID] = append(bySeat[*a.LocationID], a)
	}
	out := make([]FloorPlanSeat, 0, len(seats))
	for _, s := range seats {
		assets := bySeat[s.ID]
		if assets == nil {
			assets = []AssetRow{}
		}
		out = append(out, FloorPlanSeat{Location: s, Assets: assets})
	}
	return out, nil
}
