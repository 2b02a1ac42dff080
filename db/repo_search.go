package db

import (
	"context"
	"lab_inventory/models"
	"strings"
)

type SearchResult struct {
	ID           uint               `json:"id"`
	Name         string             `gorm:"column:asset_name" json:"name"`
	SerialNumber string             `json:"serialNumber"`
	Status       models.AssetStatus `json:"status"`
	Category     *string            `json:"category"`
	Lab          *string            `gorm:"column:lab_name" json:"lab"`
	Row          *int               `gorm:"column:lab_row" json:"row"`
	Position     *int               `gorm:"column:lab_position" json:"position"`
	Borrower     *string            `json:"borrower"`
}

// Search matches name, serial number or current borrower, ignoring case.
// Each asset appears once even when several fields match.
func (r *Repo) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalid("query", "search query is required")
	}
	like := likePattern(query)

	// 子查询：每件资产当前未归还借用的借用人（部分唯一索引保证至多一条）
	q := r.DB.WithContext(ctx)
	borrower := q.
		Table(models.TransactionTable+" t").
		Select("t.asset_id, s.student_name").
		Joins("JOIN "+models.StudentTable+" s ON s.id = t.student_id").
		Where("t.status IN ?", models.OpenStatuses)

	var rows []SearchResult
	if err := q.
		Table(models.AssetTable+" a").
		Select(`
			a.id,
			a.asset_name,
			a.serial_number,
			a.status,
			c.name AS category,
			l.lab_name,
			l.lab_row,
			l.lab_position,
			ob.student_name AS borrower
		`).
		Joins("LEFT JOIN "+models.CategoryTable+" c ON c.id = a.category_id").
		Joins("LEFT JOIN "+models.LocationTable+" l ON l.id = a.location_id").
		Joins("LEFT JOIN (?) AS ob ON ob.asset_id = a.id", borrower).
		Where(`LOWER(a.asset_name) LIKE ? ESCAPE '\'
			OR LOWER(a.serial_number) LIKE ? ESCAPE '\'
			OR LOWER(ob.student_name) LIKE ? ESCAPE '\'`, like, like, like).
		Order("a.asset_name ASC").Order("a.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrap("search assets", err)
	}
	return rows, nil
}
