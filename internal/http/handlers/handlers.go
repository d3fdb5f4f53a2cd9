package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/sparkcrew/backend/internal/catalog"
	"github.com/sparkcrew/backend/internal/db"
	"github.com/sparkcrew/backend/internal/models"
	"github.com/sparkcrew/backend/internal/service"
)

type Handler struct {
	Store     *db.Store
	Generator *catalog.Generator
	Optimizer *service.Optimizer
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

type ImportSummary struct {
	Employees struct {
		Parsed   int `json:"parsed"`
		Inserted int `json:"inserted"`
		Errors   int `json:"errors"`
	} `json:"employees"`
	Jobs struct {
		Parsed   int `json:"parsed"`
		Inserted int `json:"inserted"`
		Errors   int `json:"errors"`
	} `json:"jobs"`
	Errors []string `json:"errors"`
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Import CSV data
// @Description Upload employees and jobs CSV files
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param employees formData file true "employees.csv"
// @Param jobs formData file true "jobs.csv"
// @Success 200 {object} ImportSummary
// @Failure 400 {object} map[string]any
// @Router /api/import [post]
func (h *Handler) Import(c *gin.Context) {
	employeesFile, err := c.FormFile("employees")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "employees file required", nil)
		return
	}
	jobsFile, err := c.FormFile("jobs")
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "jobs file required", nil)
		return
	}

	if !validateExt(employeesFile.Filename) || !validateExt(jobsFile.Filename) {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "all files must be .csv", nil)
		return
	}

	summary := ImportSummary{Errors: []string{}}
	ctx := c.Request.Context()

	employees, errs := parseEmployeesCSV(employeesFile)
	summary.Employees.Parsed = len(employees)
	summary.Employees.Errors = len(errs)
	summary.Errors = append(summary.Errors, errs...)

	jobs, errs := parseJobsCSV(jobsFile)
	summary.Jobs.Parsed = len(jobs)
	summary.Jobs.Errors = len(errs)
	summary.Errors = append(summary.Errors, errs...)

	if len(summary.Errors) > 0 {
		writeError(c, http.StatusBadRequest, "CSV_PARSE_ERROR", "CSV validation errors", summary.Errors)
		return
	}

	err = h.Store.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `TRUNCATE jobs, tasks, employees, runs RESTART IDENTITY`)
		return err
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to reset tables", err.Error())
		return
	}

	inserted, err := h.Store.InsertEmployees(ctx, employees)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert employees", err.Error())
		return
	}
	summary.Employees.Inserted = int(inserted)

	inserted, err = h.Store.InsertJobs(ctx, jobs)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert jobs", err.Error())
		return
	}
	summary.Jobs.Inserted = int(inserted)

	c.JSON(http.StatusOK, summary)
}

// @Summary Smart-assign tasks for a job
// @Tags assign
// @Produce json
// @Param id path string true "Job ID"
// @Param debug query string false "Include unassigned samples"
// @Success 200 {object} map[string]any
// @Router /api/jobs/{id}/assign [post]
func (h *Handler) AssignJob(c *gin.Context) {
	jobID := c.Param("id")
	runID, err := h.Store.CreateRun(c.Request.Context(), jobID, "RUNNING")
	if err != nil {
		h.Logger.Error().Err(err).Msg("failed to create run")
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create run", err.Error())
		return
	}

	svc := service.AssignService{
		Store:     h.Store,
		Generator: h.Generator,
		Optimizer: h.Optimizer,
		Logger:    h.Logger,
	}
	debug := c.Query("debug")
	summary, err := svc.AssignJob(c.Request.Context(), jobID, debug == "1" || strings.EqualFold(debug, "true"))
	status := "SUCCESS"
	if err != nil {
		status = "FAILED"
	}
	b, _ := json.Marshal(summary)
	if finishErr := h.Store.FinishRun(c.Request.Context(), runID, status, b); finishErr != nil {
		h.Logger.Error().Err(finishErr).Msg("failed to finish run")
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
			return
		}
		h.Logger.Error().Err(err).Str("job_id", jobID).Msg("smart assign failed")
		writeError(c, http.StatusInternalServerError, "ASSIGN_ERROR", "Smart assign failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Latest run
// @Tags runs
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/runs/latest [get]
func (h *Handler) RunsLatest(c *gin.Context) {
	result, err := h.Store.GetLatestRun(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "No runs found", err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) JobsList(c *gin.Context) {
	status := strings.TrimSpace(c.Query("status"))
	category := catalog.NormalizeKey(c.Query("category"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Store.ListJobs(c.Request.Context(), status, category, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list jobs", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *Handler) JobDetails(c *gin.Context) {
	id := c.Param("id")
	job, err := h.Store.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get job", err.Error())
		return
	}
	tasks, err := h.Store.ListTasksByJob(c.Request.Context(), id)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load tasks", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "tasks": tasks})
}

func (h *Handler) EmployeesList(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	skill := strings.ToLower(strings.TrimSpace(c.Query("skill")))
	items, err := h.Store.ListEmployees(c.Request.Context(), status, skill)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list employees", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// @Summary Preview a generated checklist
// @Tags catalog
// @Produce json
// @Param category query string true "Job category"
// @Param subtype query string false "Property subtype"
// @Success 200 {object} map[string]any
// @Router /api/catalog/preview [get]
func (h *Handler) CatalogPreview(c *gin.Context) {
	category := c.Query("category")
	if strings.TrimSpace(category) == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "category is required", nil)
		return
	}
	tasks := h.Generator.Generate("", category, c.Query("subtype"))
	c.JSON(http.StatusOK, gin.H{
		"category": catalog.NormalizeKey(category),
		"subtype":  catalog.NormalizeKey(c.Query("subtype")),
		"tasks":    tasks,
	})
}

func (h *Handler) TasksGenerate(c *gin.Context) {
	id := c.Param("id")
	job, err := h.Store.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Job not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get job", err.Error())
		return
	}
	existing, err := h.Store.ListTasksByJob(c.Request.Context(), id)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load tasks", err.Error())
		return
	}
	if len(existing) > 0 {
		writeError(c, http.StatusConflict, "INVALID_STATE", "Job already has tasks", nil)
		return
	}

	tasks := h.Generator.Generate(job.ID, job.Category, job.Subtype)
	if _, err := h.Store.InsertTasks(c.Request.Context(), tasks); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert tasks", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

type ReassignRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

func (h *Handler) Reassign(c *gin.Context) {
	id := c.Param("id")
	var req ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	employees, err := h.Store.ListEmployees(c.Request.Context(), "", "")
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load employees", err.Error())
		return
	}
	var employee *models.Employee
	for i := range employees {
		if employees[i].ID == req.EmployeeID {
			employee = &employees[i]
			break
		}
	}
	if employee == nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Employee not found", nil)
		return
	}

	if _, err := h.Store.GetTask(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Task not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load task", err.Error())
		return
	}

	if err := h.Store.Reassign(c.Request.Context(), id, employee.ID, employee.Name); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to reassign", err.Error())
		return
	}

	h.Logger.Info().
		Str("task_id", id).
		Str("employee_id", employee.ID).
		Str("reason", req.Reason).
		Msg("manual reassign")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "assigned_to": employee.ID})
}

// @Summary Debug candidate scoring for one task
// @Tags debug
// @Produce json
// @Param task_id query string true "Task ID"
// @Success 200 {object} map[string]any
// @Router /api/debug/score [get]
func (h *Handler) DebugScore(c *gin.Context) {
	taskID := strings.TrimSpace(c.Query("task_id"))
	if taskID == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "task_id is required", nil)
		return
	}

	task, err := h.Store.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Task not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load task", err.Error())
		return
	}
	job, err := h.Store.GetJob(c.Request.Context(), task.JobID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load job", err.Error())
		return
	}
	employees, err := h.Store.ListEmployees(c.Request.Context(), models.StatusActive, "")
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load employees", err.Error())
		return
	}

	siblings, err := h.Store.ListTasksByJob(c.Request.Context(), job.ID)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load tasks", err.Error())
		return
	}
	workload := map[string]int{}
	for _, t := range siblings {
		if t.AssignedTo != nil {
			workload[*t.AssignedTo]++
		}
	}

	ranked := h.Optimizer.RankCandidates(c.Request.Context(), task, employees, job, time.Now().UTC(), workload)
	c.JSON(http.StatusOK, gin.H{
		"task_id":    task.ID,
		"job_id":     job.ID,
		"candidates": ranked,
		"threshold":  service.MinAcceptScore,
	})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

func parseEmployeesCSV(file *multipart.FileHeader) ([]models.Employee, []string) {
	f, err := file.Open()
	if err != nil {
		return nil, []string{err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)
	var errs []string
	var out []models.Employee

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		id := normalizeTrim(getFieldAny(rec, index, "id", "employee_id", "employee id"))
		name := normalizeTrim(getFieldAny(rec, index, "name", "full_name", "full name"))
		latStr := normalizeTrim(getFieldAny(rec, index, "lat", "latitude"))
		lonStr := normalizeTrim(getFieldAny(rec, index, "lon", "lng", "longitude"))
		skillsRaw := normalizeTrim(getFieldAny(rec, index, "skills"))
		equipmentRaw := normalizeTrim(getFieldAny(rec, index, "equipment", "equipment_owned", "tools"))
		status := normalizeStatus(getFieldAny(rec, index, "status", "availability"))
		jobsStr := normalizeTrim(getFieldAny(rec, index, "active_jobs", "active jobs", "current_jobs", "workload"))
		activeJobs, _ := strconv.Atoi(jobsStr)

		if id == "" {
			id = fmt.Sprintf("EMP-%03d", len(out)+1)
		}
		if name == "" {
			errs = append(errs, fmt.Sprintf("employee %s: name required", id))
			continue
		}
		skills := normalizeTags(skillsRaw)
		if !containsTag(skills, "basic") {
			skills = append(skills, "basic")
		}

		out = append(out, models.Employee{
			ID:         id,
			Name:       name,
			Location:   parseCoordinate(latStr, lonStr),
			Skills:     skills,
			Equipment:  normalizeTags(equipmentRaw),
			Status:     status,
			ActiveJobs: activeJobs,
			UpdatedAt:  time.Now().UTC(),
		})
	}
	return out, errs
}

func parseJobsCSV(file *multipart.FileHeader) ([]models.Job, []string) {
	f, err := file.Open()
	if err != nil {
		return nil, []string{err.Error()}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, []string{"failed to read header"}
	}
	index := headerIndex(headers)
	var errs []string
	var out []models.Job

	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		id := normalizeTrim(getFieldAny(rec, index, "id", "job_id", "job id"))
		category := catalog.NormalizeKey(getFieldAny(rec, index, "category", "job_category", "type"))
		subtype := catalog.NormalizeKey(getFieldAny(rec, index, "subtype", "property_type", "building_type"))
		address := normalizeTrim(getFieldAny(rec, index, "address", "location"))
		latStr := normalizeTrim(getFieldAny(rec, index, "lat", "latitude"))
		lonStr := normalizeTrim(getFieldAny(rec, index, "lon", "lng", "longitude"))
		equipmentRaw := normalizeTrim(getFieldAny(rec, index, "equipment_needed", "equipment"))
		crewRaw := normalizeTrim(getFieldAny(rec, index, "employee_ids", "crew", "assigned_employees"))
		scheduledStr := normalizeTrim(getFieldAny(rec, index, "scheduled_at", "scheduled", "date"))

		scheduledAt, err := time.Parse(time.RFC3339, scheduledStr)
		if err != nil {
			scheduledAt = time.Now().UTC()
		}
		if id == "" {
			id = uuid.NewString()
		}
		if category == "" {
			errs = append(errs, fmt.Sprintf("job %s: category required", id))
			continue
		}
		if subtype == "" {
			subtype = catalog.SubtypeAny
		}

		out = append(out, models.Job{
			ID:              id,
			Category:        category,
			Subtype:         subtype,
			Address:         address,
			Location:        parseCoordinate(latStr, lonStr),
			EquipmentNeeded: normalizeTags(equipmentRaw),
			EmployeeIDs:     splitList(crewRaw),
			Status:          "booked",
			ScheduledAt:     scheduledAt,
			CreatedAt:       time.Now().UTC(),
		})
	}
	return out, errs
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func getField(rec []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

func getFieldAny(rec []string, idx map[string]int, names ...string) string {
	for _, name := range names {
		if v := getField(rec, idx, normalizeHeader(name)); v != "" {
			return v
		}
	}
	return ""
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	return strings.ToLower(strings.TrimSpace(h))
}

func normalizeTrim(v string) string {
	return strings.TrimSpace(v)
}

func normalizeTags(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	parts := strings.Split(raw, ",")
	seen := map[string]struct{}{}
	var out []string
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func splitList(raw string) []string {
	raw = strings.ReplaceAll(raw, ";", ",")
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeStatus(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case v == "":
		return models.StatusActive
	case strings.Contains(v, "inactive") || strings.Contains(v, "disabled"):
		return models.StatusInactive
	case strings.Contains(v, "unavailable") || strings.Contains(v, "leave") || strings.Contains(v, "vacation"):
		return models.StatusUnavailable
	case strings.Contains(v, "active") || strings.Contains(v, "available"):
		return models.StatusActive
	default:
		return models.StatusActive
	}
}

func containsTag(tags []string, target string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, target) {
			return true
		}
	}
	return false
}

func parseCoordinate(latStr, lonStr string) *models.Coordinate {
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return nil
	}
	return &models.Coordinate{Lat: lat, Lon: lon}
}

func validateExt(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".csv"
}
