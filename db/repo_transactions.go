// db/repo_transactions.go
package db

import (
	"context"
	"lab_inventory/models"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BorrowInput struct {
	AssetID        uint   `json:"assetId"`
	StudentID      uint   `json:"studentId"`
	ExpectedReturn string `json:"expectedReturn"` // YYYY-MM-DD
	Note           string `json:"note"`
}

// 借出：锁住资产 → 校验无未归还借用 → 新建 transaction → 资产置为 borrowed
func (r *Repo) Borrow(ctx context.Context, in BorrowInput) (*models.Transaction, error) {
	if in.AssetID == 0 {
		return nil, invalid("assetId", "is required")
	}
	if in.StudentID == 0 {
		return nil, invalid("studentId", "is required")
	}
	if strings.TrimSpace(in.ExpectedReturn) == "" {
		return nil, invalid("expectedReturn", "is required")
	}
	due, err := ParseDate("expectedReturn", in.ExpectedReturn)
	if err != nil {
		return nil, err
	}
	now := r.now()
	if models.IsOverdue(due, now) {
		return nil, invalid("expectedReturn", "must not be before today")
	}

	var t *models.Transaction
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) 锁住资产
		var a models.Asset
		if err := forUpdate(tx).First(&a, "id = ?", in.AssetID).Error; err != nil {
			return notFound(err, "asset", in.AssetID)
		}
		switch a.Status {
		case models.AssetBorrowed:
			return &ConflictError{Msg: "asset is already borrowed"}
		case models.AssetRetired:
			return &ConflictError{Msg: "asset is retired"}
		}

		var s models.Student
		if err := tx.First(&s, "id = ?", in.StudentID).Error; err != nil {
			return notFound(err, "student", in.StudentID)
		}

		// 2) 防并发：存在未归还借用则拒绝
		var n int64
		if err := tx.Model(&models.Transaction{}).
			Where("asset_id = ? AND status IN ?", a.ID, models.OpenStatuses).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return &ConflictError{Msg: "asset is already borrowed"}
		}

		// 3) 先占位，条件更新
		res := tx.Model(&models.Asset{}).
			Where("id = ? AND status <> ?", a.ID, models.AssetBorrowed).
			Updates(map[string]any{"status": models.AssetBorrowed, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &ConflictError{Msg: "asset is already borrowed"}
		}

		// 4) 新建 transaction
		l := &models.Transaction{
			AssetID:         a.ID,
			StudentID:       s.ID,
			Type:            models.TransactionBorrow,
			TransactionDate: now.UTC(),
			ExpectedReturn:  datatypes.Date(due),
			Status:          models.TransactionActive,
			Note:            strings.TrimSpace(in.Note),
		}
		if err := tx.Create(l).Error; err != nil {
			return err
		}
		t = l
		return nil
	})
	if err != nil {
		return nil, wrap("borrow asset", err)
	}
	return t, nil
}

// 归还：完成 transaction → 资产置为 newStatus（默认 good）
func (r *Repo) Return(ctx context.Context, transactionID uint, newStatus models.AssetStatus) (*models.Transaction, error) {
	if transactionID == 0 {
		return nil, invalid("transactionId", "is required")
	}
	if newStatus == "" {
		newStatus = models.AssetGood
	}
	if !newStatus.Valid() {
		return nil, invalid("newStatus", "unknown status %q", newStatus)
	}
	if newStatus == models.AssetBorrowed {
		return nil, invalid("newStatus", "a returned asset cannot stay borrowed")
	}

	now := r.now()
	var t models.Transaction
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&t, "id = ?", transactionID).Error; err != nil {
			return notFound(err, "transaction", transactionID)
		}
		if !t.Status.Open() {
			return &ConflictError{Msg: "transaction is already completed"}
		}

		today := datatypes.Date(models.CivilDate(now))
		t.ActualReturn = &today
		t.Status = models.TransactionCompleted
		if err := tx.Model(&models.Transaction{}).
			Where("id = ?", t.ID).
			Updates(map[string]any{
				"actual_return_date": today,
				"status":             t.Status,
				"updated_at":         now,
			}).Error; err != nil {
			return err
		}

		// 释放资产
		return setStatus(tx, t.AssetID, newStatus)
	})
	if err != nil {
		return nil, wrap("return asset", err)
	}
	return &t, nil
}

// TransactionRow is a transaction with the display names the UI needs.
type TransactionRow struct {
	models.Transaction
	AssetName     string `gorm:"column:asset_name" json:"assetName"`
	SerialNumber  string `gorm:"column:serial_number" json:"serialNumber"`
	StudentName   string `gorm:"column:student_name" json:"studentName"`
	StudentNumber string `gorm:"column:student_number" json:"studentNumber"`
	IsOverdue     bool   `gorm:"-" json:"overdue"`
	DaysOverdue   int    `gorm:"-" json:"daysOverdue"`
}

type TransactionFilter struct {
	AssetID   uint
	StudentID uint
	Status    models.TransactionStatus
	OpenOnly  bool // active or overdue, i.e. currently borrowed
}

func (r *Repo) transactionRows(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table(models.TransactionTable+" t").
		Select(`
			t.*,
			a.asset_name,
			a.serial_number,
			s.student_name,
			s.student_number
		`).
		Joins("JOIN "+models.AssetTable+" a ON a.id = t.asset_id").
		Joins("JOIN "+models.StudentTable+" s ON s.id = t.student_id")
}

// ListTransactions returns loans newest first. Overdue is derived from the
// clock, so an active loan reads as overdue before the sweep catches it.
func (r *Repo) ListTransactions(ctx context.Context, f TransactionFilter) ([]TransactionRow, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, invalid("status", "unknown status %q", f.Status)
	}
	q := r.transactionRows(ctx)
	if f.AssetID != 0 {
		q = q.Where("t.asset_id = ?", f.AssetID)
	}
	if f.StudentID != 0 {
		q = q.Where("t.student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		q = q.Where("t.status = ?", f.Status)
	}
	if f.OpenOnly {
		q = q.Where("t.status IN ?", models.OpenStatuses)
	}

	var rows []TransactionRow
	if err := q.Order("t.transaction_date DESC").Order("t.id DESC").Scan(&rows).Error; err != nil {
		return nil, wrap("list transactions", err)
	}
	now := r.now()
	for i := range rows {
		rows[i].IsOverdue = rows[i].Overdue(now)
		if rows[i].IsOverdue {
			rows[i].DaysOverdue = models.DaysOverdue(time.Time(rows[i].ExpectedReturn), now)
		}
	}
	return rows, nil
}

// ListOverdue returns open loans past their expected return date, the most
// overdue first. Dates are compared in Go so both dialects agree.
func (r *Repo) ListOverdue(ctx context.Context) ([]TransactionRow, error) {
	var rows []TransactionRow
	if err := r.transactionRows(ctx).
		Where("t.status IN ?", models.OpenStatuses).
		Order("t.expected_return_date ASC").Order("t.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, wrap("list overdue", err)
	}

	now := r.now()
	out := make([]TransactionRow, 0, len(rows))
	for _, row := range rows {
		if !row.Overdue(now) {
			continue
		}
		row.IsOverdue = true
		row.DaysOverdue = models.DaysOverdue(time.Time(row.ExpectedReturn), now)
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysOverdue > out[j].DaysOverdue })
	return out, nil
}

// PromoteOverdue moves active loans past due to overdue and returns how many
// changed. Only active rows are touched, so a return that commits first wins.
func (r *Repo) PromoteOverdue(ctx context.Context) (int64, error) {
	var open []models.Transaction
	if err := r.DB.WithContext(ctx).
		Select("id", "expected_return_date", "status").
		Where("status = ?", models.TransactionActive).
		Find(&open).Error; err != nil {
		return 0, wrap("scan active loans", err)
	}

	now := r.now()
	var ids []uint
	for _, t := range open {
		if t.Overdue(now) {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	res := r.DB.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id IN ? AND status = ?", ids, models.TransactionActive).
		Updates(map[string]any{"status": models.TransactionOverdue, "updated_at": now})
	if res.Error != nil {
		return 0, wrap("promote overdue", res.Error)
	}
	return res.RowsAffected, nil
}

// OpenLoanFor returns the open loan on an asset, or nil when it is free.
func (r *Repo) OpenLoanFor(ctx context.Context, assetID uint) (*models.Transaction, error) {
	var ts []models.Transaction
	if err := r.DB.WithContext(ctx).
		Where("asset_id = ? AND status IN ?", assetID, models.OpenStatuses).
		Limit(1).
		Find(&ts).Error; err != nil {
		return nil, wrap("find open loan", err)
	}
	if len(ts) == 0 {
		return nil, nil
	}
	return &ts[0], nil
}
