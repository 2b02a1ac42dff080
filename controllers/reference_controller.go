package controllers

import (
	"lab_inventory/app"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReferenceController struct{ *Srv }

func NewReferenceController(s *Srv) *ReferenceController { return &ReferenceController{Srv: s} }

// GET /api/categories
func (rc *ReferenceController) Categories(c *gin.Context) {
	cs, err := rc.Repo.ListCategories(c.Request.Context())
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"categories": cs})
}

// GET /api/locations
func (rc *ReferenceController) Locations(c *gin.Context) {
	ls, err := rc.Repo.ListLocations(c.Request.Context())
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"locations": ls})
}

// GET /api/locations/floorplan?lab=
func (rc *ReferenceController) FloorPlan(c *gin.Context) {
	seats, err := rc.Repo.FloorPlan(c.Request.Context(), c.Query("lab"))
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"seats": seats})
}

// GET /api/students?q=&page=&size=
// Without paging parameters the full active roster is returned, which is
// what the borrow dialog needs.
func (rc *ReferenceController) Students(c *gin.Context) {
	q := c.Query("q")
	if q == "" && c.Query("page") == "" && c.Query("size") == "" {
		students, err := rc.Repo.ListActiveStudents(c.Request.Context())
		if err != nil {
			rc.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, app.H{"students": students, "total": len(students)})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	res, err := rc.Repo.ListStudents(c.Request.Context(), q, page, size)
	if err != nil {
		rc.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"total":    res.Total,
		"students": res.Students,
	})
}
