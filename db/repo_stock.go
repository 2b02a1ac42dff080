package db

import "context"

type LowStockRow struct {
	AssetRow
	Shortage int `gorm:"-" json:"shortage"`
}

// LowStock lists every consumable at or below its threshold, by id.
func (r *Repo) LowStock(ctx context.Context) ([]LowStockRow, error) {
	var rows []AssetRow
	if err := r.assetRows(ctx).
		Where("a.is_consumable = ? AND a.quantity <= a.min_stock_threshold", true).
		Order("a.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrap("list low stock", err)
	}
	out := make([]LowStockRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, LowStockRow{AssetRow: row, Shortage: row.Shortage()})
	}
	return out, nil
}
