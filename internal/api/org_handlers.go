package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/dashboard"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
)

// OrgHandler serves the company / department / team / user pages.
type OrgHandler struct {
	db *database.Database
}

func NewOrgHandler(db *database.Database) *OrgHandler {
	return &OrgHandler{db: db}
}

// Companies

func (h *OrgHandler) CreateCompany(c *gin.Context) {
	var company models.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.CreateCompany(&company); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create company")
		return
	}

	respondOK(c, http.StatusCreated, company)
}

func (h *OrgHandler) GetCompany(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid company ID")
		return
	}

	company, err := h.db.GetCompany(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Company not found")
		return
	}

	respondOK(c, http.StatusOK, company)
}

func (h *OrgHandler) ListCompanies(c *gin.Context) {
	companies, err := h.db.ListCompanies()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list companies")
		return
	}

	// The companies page filters by search term, active state, and tag
	// chips; all of that runs through the predicate engine.
	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.Apply(companies, filters, search))
}

func (h *OrgHandler) UpdateCompany(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var company models.Company
	if err := c.ShouldBindJSON(&company); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	company.ID = uint(id)
	if err := h.db.UpdateCompany(&company); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update company")
		return
	}

	respondOK(c, http.StatusOK, company)
}

func (h *OrgHandler) DeleteCompany(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid company ID")
		return
	}

	if err := h.db.DeleteCompany(uint(id)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete company")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Departments

func (h *OrgHandler) CreateDepartment(c *gin.Context) {
	var department models.Department
	if err := c.ShouldBindJSON(&department); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.CreateDepartment(&department); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create department")
		return
	}

	respondOK(c, http.StatusCreated, department)
}

func (h *OrgHandler) GetDepartment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid department ID")
		return
	}

	department, err := h.db.GetDepartment(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Department not found")
		return
	}

	respondOK(c, http.StatusOK, department)
}

func (h *OrgHandler) ListDepartments(c *gin.Context) {
	departments, err := h.db.ListDepartments(queryUint(c, "company_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list departments")
		return
	}

	filters, search := filtersFromQuery(c)
	respondOK(c, http.StatusOK, dashboard.Apply(departments, filters, search))
}

func (h *OrgHandler) UpdateDepartment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid department ID")
		return
	}

	var department models.Department
	if err := c.ShouldBindJSON(&department); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	department.ID = uint(id)
	if err := h.db.UpdateDepartment(&department); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update department")
		return
	}

	respondOK(c, http.StatusOK, department)
}

func (h *OrgHandler) DeleteDepartment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid department ID")
		return
	}

	if err := h.db.DeleteDepartment(uint(id)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete department")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Teams

func (h *OrgHandler) CreateTeam(c *gin.Context) {
	var team models.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.CreateTeam(&team); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create team")
		return
	}

	respondOK(c, http.StatusCreated, team)
}

func (h *OrgHandler) GetTeam(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	team, err := h.db.GetTeam(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "Team not found")
		return
	}

	respondOK(c, http.StatusOK, team)
}

func (h *OrgHandler) ListTeams(c *gin.Context) {
	teams, err := h.db.ListTeams(queryUint(c, "department_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list teams")
		return
	}

	respondOK(c, http.StatusOK, teams)
}

func (h *OrgHandler) UpdateTeam(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	var team models.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	team.ID = uint(id)
	if err := h.db.UpdateTeam(&team); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update team")
		return
	}

	respondOK(c, http.StatusOK, team)
}

func (h *OrgHandler) DeleteTeam(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid team ID")
		return
	}

	if err := h.db.DeleteTeam(uint(id)); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete team")
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// Users

func (h *OrgHandler) ListUsers(c *gin.Context) {
	users, err := h.db.ListUsers()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list users")
		return
	}

	respondOK(c, http.StatusOK, users)
}

func (h *OrgHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.db.GetUser(uint(id))
	if err != nil {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}

	respondOK(c, http.StatusOK, user)
}
