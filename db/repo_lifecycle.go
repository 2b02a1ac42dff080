package db

import (
	"context"
	"fmt"
	"lab_inventory/models"
	"sort"
	"time"

	"gorm.io/datatypes"
)

const (
	EntryRepair      = "repair"
	EntryTransaction = "transaction"
)

// LifecycleEntry is one line of an asset's history timeline.
type LifecycleEntry struct {
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Details     string    `json:"details,omitempty"`
}

type lifecycleLoan struct {
	ID              uint
	Type            models.TransactionType `gorm:"column:transaction_type"`
	TransactionDate time.Time
	ExpectedReturn  datatypes.Date `gorm:"column:expected_return_date"`
	StudentName     *string
}

// History merges repair logs and loans of an asset into one timeline,
// newest first. Entries with the same date keep repairs ahead of loans.
func (r *Repo) History(ctx context.Context, assetID uint) ([]LifecycleEntry, error) {
	var a models.Asset
	if err := r.DB.WithContext(ctx).Select("id").First(&a, "id = ?", assetID).Error; err != nil {
		return nil, wrap("find asset", notFound(err, "asset", assetID))
	}

	var logs []models.RepairLog
	if err := r.DB.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("log_date DESC").Order("id DESC").
		Find(&logs).Error; err != nil {
		return nil, wrap("list repair history", err)
	}

	var loans []lifecycleLoan
	if err := r.DB.WithContext(ctx).
		Table(models.TransactionTable+" t").
		Select("t.id, t.transaction_type, t.transaction_date, t.expected_return_date, s.student_name").
		Joins("LEFT JOIN "+models.StudentTable+" s ON s.id = t.student_id").
		Where("t.asset_id = ?", assetID).
		Order("t.transaction_date DESC").Order("t.id DESC").
		Scan(&loans).Error; err != nil {
		return nil, wrap("list loan history", err)
	}

	out := make([]LifecycleEntry, 0, len(logs)+len(loans))
	for _, l := range logs {
		out = append(out, LifecycleEntry{
			Type:        EntryRepair,
			Date:        l.LogDate,
			Description: l.Description,
			Details:     l.ActionTaken,
		})
	}
	for _, t := range loans {
		student := "Unknown"
		if t.StudentName != nil {
			student = *t.StudentName
		}
		out = append(out, LifecycleEntry{
			Type:        EntryTransaction,
			Date:        t.TransactionDate,
			Description: fmt.Sprintf("%s - %s", t.Type, student),
			Details:     "Expected return: " + time.Time(t.ExpectedReturn).Format(dateLayout),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
