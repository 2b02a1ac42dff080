package db

import (
	"context"
	"lab_inventory/models"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RepairLogInput struct {
	AssetID     uint                 `json:"assetId"`
	LogType     models.RepairLogType `json:"logType"`
	Description string               `json:"description"`
	Action      string               `json:"action"`
	Cost        *decimal.Decimal     `json:"cost"`
	Parts       string               `json:"parts"`
	Status      models.RepairStatus  `json:"status"`
	Technician  string               `json:"technician"`
}

// CreateRepairLog appends a log entry. The asset itself is left untouched.
func (r *Repo) CreateRepairLog(ctx context.Context, in RepairLogInput) (*models.RepairLog, error) {
	if in.AssetID == 0 {
		return nil, invalid("assetId", "is required")
	}
	if in.LogType == "" {
		return nil, invalid("logType", "is required")
	}
	if !in.LogType.Valid() {
		return nil, invalid("logType", "unknown log type %q", in.LogType)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalid("description", "is required")
	}
	if in.Status == "" {
		in.Status = models.RepairPending
	}
	if !in.Status.Valid() {
		return nil, invalid("status", "unknown repair status %q", in.Status)
	}
	cost := decimal.Zero
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, invalid("cost", "must be >= 0")
		}
		cost = in.Cost.Round(2)
	}

	log := &models.RepairLog{
		AssetID:       in.AssetID,
		LogType:       in.LogType,
		Description:   strings.TrimSpace(in.Description),
		ActionTaken:   strings.TrimSpace(in.Action),
		Cost:          cost,
		PartsReplaced: strings.TrimSpace(in.Parts),
		Status:        in.Status,
		Technician:    strings.TrimSpace(in.Technician),
		LogDate:       r.now().UTC(),
	}
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Asset
		if err := tx.Select("id").First(&a, "id = ?", in.AssetID).Error; err != nil {
			return notFound(err, "asset", in.AssetID)
		}
		return tx.Create(log).Error
	})
	if err != nil {
		return nil, wrap("insert repair log", err)
	}
	return log, nil
}

// RepairLogRow adds the asset's display fields to a log entry.
type RepairLogRow struct {
	models.RepairLog
	AssetName    string `gorm:"column:asset_name" json:"assetName"`
	SerialNumber string `gorm:"column:serial_number" json:"serialNumber"`
}

// ListRepairLogs returns logs newest first, for one asset when assetID is set.
func (r *Repo) ListRepairLogs(ctx context.Context, assetID uint) ([]RepairLogRow, error) {
	q := r.DB.WithContext(ctx).
		Table(models.RepairLogTable+" rl").
		Select("rl.*, a.asset_name, a.serial_number").
		Joins("JOIN " + models.AssetTable + " a ON a.id = rl.asset_id")
	if assetID != 0 {
		q = q.Where("rl.asset_id = ?", assetID)
	}
	var rows []RepairLogRow
	if err := q.Order("rl.log_date DESC").Order("rl.id DESC").Scan(&rows).Error; err != nil {
		return nil, wrap("list repair logs", err)
	}
	return rows, nil
}
