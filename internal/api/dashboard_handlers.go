package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/dashboard"
	"github.com/trackboard/trackboard/internal/database"
)

// DashboardHandler composes the overview page: load the raw snapshots,
// run them through the aggregation engine, and return a single view-model
// the page renders without further logic.
type DashboardHandler struct {
	db *database.Database
}

func NewDashboardHandler(db *database.Database) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// GetDashboard returns the full dashboard view-model. Any failed snapshot
// load fails the whole view; there is no partial dashboard.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	tasks, err := h.db.ListTasks(database.TaskQuery{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
		return
	}

	projects, err := h.db.ListProjects(nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
		return
	}

	users, err := h.db.ListUsers()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load dashboard data")
		return
	}

	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.BuildView(tasks, projects, users, filters, search))
}

// GetStats returns just the summary strip, for pages that embed it without
// the charts.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	tasks, err := h.db.ListTasks(database.TaskQuery{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	projects, err := h.db.ListProjects(nil)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	users, err := h.db.ListUsers()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	filters, search := filtersFromQuery(c)
	filtered := dashboard.Apply(tasks, filters, search)
	respondOK(c, http.StatusOK, dashboard.ComputeStats(filtered, projects, users))
}
