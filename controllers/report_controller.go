package controllers

import (
	"lab_inventory/app"
	"lab_inventory/db"
	"lab_inventory/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReportController serves the derived views: lifecycle, stock alerts,
// search and the dashboard bundle. Nothing here writes.
type ReportController struct{ *Srv }

func NewReportController(s *Srv) *ReportController { return &ReportController{Srv: s} }

// GET /api/assets/:id/lifecycle
func (rc *ReportController) Lifecycle(c *gin.Context) {
	id, err := idParam(c, "id", "assetId")
	if err != nil {
		rc.respondError(c, err)
		return
	}
	history, err := rc.Repo.History(c.Request.Context(), id)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"lifecycle": history})
}

// GET /api/stock/low
func (rc *ReportController) LowStock(c *gin.Context) {
	rows, err := rc.Repo.LowStock(c.Request.Context())
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"lowStock": rows})
}

// GET /api/search?query=
func (rc *ReportController) Search(c *gin.Context) {
	q := c.Query("query")
	if q == "" {
		q = c.Query("q")
	}
	results, err := rc.Repo.Search(c.Request.Context(), q)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"results": results, "count": len(results)})
}

type dashboard struct {
	Assets        []db.AssetRow       `json:"assets"`
	Categories    []models.Category   `json:"categories"`
	Locations     []models.Location   `json:"locations"`
	Students      []models.Student    `json:"students"`
	Transactions  []db.TransactionRow `json:"transactions"`
	LowStock      []db.LowStockRow    `json:"lowStock"`
	Overdue       []db.TransactionRow `json:"overdue"`
	OverdueCount  int                 `json:"overdueCount"`
	LowStockCount int                 `json:"lowStockCount"`
}

// GET /api/dashboard  一次返回首页所需全部数据
func (rc *ReportController) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		d   dashboard
		err error
	)
	if d.Assets, err = rc.Repo.ListActive(ctx); err != nil {
		rc.respondError(c, err)
		return
	}
	if d.Categories, err = rc.Repo.ListCategories(ctx); err != nil {
		rc.respondError(c, err)
		return
	}
	if d.Locations, err = rc.Repo.ListLocations(ctx); err != nil {
		rc.respondError(c, err)
		return
	}
	if d.Students, err = rc.Repo.ListActiveStudents(ctx); err != nil {
		rc.respondError(c, err)
		return
	}
	if d.Transactions, err = rc.Repo.ListTransactions(ctx, db.TransactionFilter{OpenOnly: true}); err != nil {
		rc.respondError(c, err)
		return
	}
	if d.LowStock, err = rc.Repo.LowStock(ctx); err != nil {
		rc.respondError(c, err)
		return
	}
	if d.Overdue, err = rc.Repo.ListOverdue(ctx); err != nil {
		rc.respondError(c, err)
		return
	}
	d.OverdueCount = len(d.Overdue)
	d.LowStockCount = len(d.LowStock)
	c.JSON(http.StatusOK, d)
}
