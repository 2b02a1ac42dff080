// controllers/srv.go
package controllers

import (
	"errors"
	"io"
	"lab_inventory/app"
	"lab_inventory/config"
	"lab_inventory/db"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Srv struct {
	Repo   *db.Repo
	Cfg    config.Config
	Logger *slog.Logger
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:   db.NewRepo(a.DB),
		Cfg:    a.Config,
		Logger: a.Logger,
	}
}

// --- helpers ---

// respondError maps repo errors onto status codes. Anything unclassified is
// logged in full and reported as a bare 500.
func (s *Srv) respondError(c *gin.Context, err error) {
	var (
		ve *db.ValidationError
		ne *db.NotFoundError
		ce *db.ConflictError
	)
	switch {
	case errors.As(err, &ve):
		body := app.H{"error": ve.Error()}
		if ve.Field != "" {
			body["field"] = ve.Field
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, app.H{"error": ne.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, app.H{"error": ce.Error()})
	default:
		s.Logger.Error("request failed",
			"requestId", app.RequestID(c),
			"path", c.Request.URL.Path,
			"action", c.Query("action"),
			"error", err)
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal server error"})
	}
}

// idParam reads a positive id from the path, falling back to the query
// string, trying each name in turn. REST routes use :id, the action router
// uses ?id= or ?assetId=.
func idParam(c *gin.Context, names ...string) (uint, error) {
	for _, n := range names {
		v := c.Param(n)
		if v == "" {
			v = c.Query(n)
		}
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || id == 0 {
			return 0, &db.ValidationError{Field: n, Msg: "must be a positive integer"}
		}
		return uint(id), nil
	}
	return 0, &db.ValidationError{Field: names[0], Msg: "is required"}
}

// bindBody decodes a JSON body into v. An empty body leaves v untouched so
// the repo reports which fields are missing.
func bindBody(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &db.ValidationError{Msg: "invalid JSON body: " + err.Error()}
	}
	return nil
}
