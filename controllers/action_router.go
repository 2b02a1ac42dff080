package controllers

import (
	"lab_inventory/app"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const apiVersion = "1.0.0"

// ActionRouter serves the single-endpoint API, /api?action=<name>, that the
// browser client speaks. Each action reuses the REST handler.
type ActionRouter struct {
	actions map[string]gin.HandlerFunc
}

func NewActionRouter(s *Srv) *ActionRouter {
	ac := NewAssetController(s)
	tc := NewTransactionController(s)
	rc := NewRepairController(s)
	rep := NewReportController(s)
	ref := NewReferenceController(s)

	return &ActionRouter{actions: map[string]gin.HandlerFunc{
		"getCategories": ref.Categories,
		"getLocations":  ref.Locations,
		"getStudents":   ref.Students,

		"getAssets":         ac.ListAssets,
		"getAsset":          ac.GetAsset,
		"createAsset":       ac.CreateAsset,
		"updateAsset":       ac.UpdateAsset,
		"deleteAsset":       ac.DeleteAsset,
		"batchUpdateAssets": ac.BatchUpdate,

		"getTransactions":        tc.ListTransactions,
		"borrowAsset":            tc.Borrow,
		"returnAsset":            tc.Return,
		"getOverdueTransactions": tc.ListOverdue,

		"getRepairLogs":   rc.ListRepairLogs,
		"createRepairLog": rc.CreateRepairLog,

		"getDashboard":      rep.Dashboard,
		"getLowStock":       rep.LowStock,
		"getAssetLifecycle": rep.Lifecycle,
		"search":            rep.Search,

		"":     Ping,
		"ping": Ping,
	}}
}

// Handle dispatches on ?action=.
func (ar *ActionRouter) Handle(c *gin.Context) {
	action := c.Query("action")
	h, ok := ar.actions[action]
	if !ok {
		c.JSON(http.StatusNotFound, app.H{"error": "Unknown action: " + action})
		return
	}
	h(c)
}

// Ping is the health payload.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{
		"status":    "ok",
		"message":   "IT Equipment Inventory API",
		"version":   apiVersion,
		"timestamp": time.Now().Format("2006-01-02 15:04:05"),
	})
}
