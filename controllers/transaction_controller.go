// controllers/transaction_controller.go
package controllers

import (
	"lab_inventory/app"
	"lab_inventory/db"
	"lab_inventory/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TransactionController struct{ *Srv }

func NewTransactionController(s *Srv) *TransactionController {
	return &TransactionController{Srv: s}
}

// 借还记录  GET /api/transactions?assetId=&studentId=&status=
func (tc *TransactionController) ListTransactions(c *gin.Context) {
	var f db.TransactionFilter
	if c.Query("assetId") != "" {
		id, err := idParam(c, "assetId")
		if err != nil {
			tc.respondError(c, err)
			return
		}
		f.AssetID = id
	}
	if c.Query("studentId") != "" {
		id, err := idParam(c, "studentId")
		if err != nil {
			tc.respondError(c, err)
			return
		}
		f.StudentID = id
	}
	f.Status = models.TransactionStatus(c.Query("status"))

	ts, err := tc.Repo.ListTransactions(c.Request.Context(), f)
	if err != nil {
		tc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"transactions": ts})
}

// 借出  POST /api/transactions
func (tc *TransactionController) Borrow(c *gin.Context) {
	var in db.BorrowInput
	if err := bindBody(c, &in); err != nil {
		tc.respondError(c, err)
		return
	}
	t, err := tc.Repo.Borrow(c.Request.Context(), in)
	if err != nil {
		tc.respondError(c, err)
		return
	}
	tc.Logger.Info("asset borrowed",
		"transactionId", t.ID, "assetId", t.AssetID, "studentId", t.StudentID)
	c.JSON(http.StatusOK, app.H{"success": true, "id": t.ID, "message": "Asset borrowed successfully"})
}

// 归还  POST /api/transactions/:id/return，或 action=returnAsset 时从 body 取 transactionId
func (tc *TransactionController) Return(c *gin.Context) {
	var in struct {
		TransactionID uint               `json:"transactionId"`
		NewStatus     models.AssetStatus `json:"newStatus"`
	}
	if err := bindBody(c, &in); err != nil {
		tc.respondError(c, err)
		return
	}
	if c.Param("id") != "" {
		id, err := idParam(c, "id")
		if err != nil {
			tc.respondError(c, err)
			return
		}
		in.TransactionID = id
	}
	t, err := tc.Repo.Return(c.Request.Context(), in.TransactionID, in.NewStatus)
	if err != nil {
		tc.respondError(c, err)
		return
	}
	tc.Logger.Info("asset returned", "transactionId", t.ID, "assetId", t.AssetID)
	c.JSON(http.StatusOK, app.H{"success": true, "message": "Asset returned successfully"})
}

// GET /api/transactions/overdue
func (tc *TransactionController) ListOverdue(c *gin.Context) {
	rows, err := tc.Repo.ListOverdue(c.Request.Context())
	if err != nil {
		tc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"overdue": rows})
}
