package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sparkcrew/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) InsertJobs(ctx context.Context, jobs []models.Job) (int64, error) {
	rows := make([][]any, 0, len(jobs))
	for _, j := range jobs {
		lat, lon := coordCols(j.Location)
		rows = append(rows, []any{j.ID, j.Category, j.Subtype, j.Address, lat, lon, j.EquipmentNeeded, j.EmployeeIDs, j.Status, j.ScheduledAt, j.CreatedAt})
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"jobs"},
		[]string{"id", "category", "subtype", "address", "lat", "lon", "equipment_needed", "employee_ids", "status", "scheduled_at", "created_at"},
		pgx.CopyFromRows(rows))
}

func (s *Store) InsertEmployees(ctx context.Context, employees []models.Employee) (int64, error) {
	rows := make([][]any, 0, len(employees))
	for _, e := range employees {
		lat, lon := coordCols(e.Location)
		rows = append(rows, []any{e.ID, e.Name, lat, lon, e.Skills, e.Equipment, e.Status, e.ActiveJobs, e.UpdatedAt})
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"employees"},
		[]string{"id", "name", "lat", "lon", "skills", "equipment", "status", "active_jobs", "updated_at"},
		pgx.CopyFromRows(rows))
}

func (s *Store) InsertTasks(ctx context.Context, tasks []models.Task) (int64, error) {
	rows := make([][]any, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []any{t.ID, t.JobID, t.Title, t.Description, t.Instructions, t.DurationMin, t.Priority, t.Skills, t.Equipment, t.MediaLinks, t.DisplayOrder, t.Completed, t.AssignedTo, t.AssignedToName})
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"tasks"},
		[]string{"id", "job_id", "title", "description", "instructions", "duration_min", "priority", "skills", "equipment", "media_links", "display_order", "completed", "assigned_to", "assigned_to_name"},
		pgx.CopyFromRows(rows))
}

func (s *Store) GetJob(ctx context.Context, jobID string) (models.Job, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, category, subtype, address, lat, lon, equipment_needed, employee_ids, status, scheduled_at, created_at
		FROM jobs WHERE id = $1
	`, jobID)
	return scanJob(row)
}

func (s *Store) ListJobs(ctx context.Context, status, category string, limit, offset int) ([]models.Job, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, category, subtype, address, lat, lon, equipment_needed, employee_ids, status, scheduled_at, created_at FROM jobs`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if category != "" {
		args = append(args, category)
		wheres = append(wheres, fmt.Sprintf("category = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY scheduled_at ASC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (s *Store) ListTasksByJob(ctx context.Context, jobID string) ([]models.Task, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, job_id, title, description, instructions, duration_min, priority, skills, equipment, media_links, display_order, completed, assigned_to, assigned_to_name
		FROM tasks WHERE job_id = $1 ORDER BY display_order ASC, id ASC
	`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		var assignedName *string
		if err := rows.Scan(&t.ID, &t.JobID, &t.Title, &t.Description, &t.Instructions, &t.DurationMin, &t.Priority, &t.Skills, &t.Equipment, &t.MediaLinks, &t.DisplayOrder, &t.Completed, &t.AssignedTo, &assignedName); err != nil {
			return nil, err
		}
		if assignedName != nil {
			t.AssignedToName = *assignedName
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, taskID string) (models.Task, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, job_id, title, description, instructions, duration_min, priority, skills, equipment, media_links, display_order, completed, assigned_to, assigned_to_name
		FROM tasks WHERE id = $1
	`, taskID)
	var t models.Task
	var assignedName *string
	if err := row.Scan(&t.ID, &t.JobID, &t.Title, &t.Description, &t.Instructions, &t.DurationMin, &t.Priority, &t.Skills, &t.Equipment, &t.MediaLinks, &t.DisplayOrder, &t.Completed, &t.AssignedTo, &assignedName); err != nil {
		return models.Task{}, err
	}
	if assignedName != nil {
		t.AssignedToName = *assignedName
	}
	return t, nil
}

func (s *Store) ListEmployees(ctx context.Context, status, skill string) ([]models.Employee, error) {
	query := `SELECT id, name, lat, lon, skills, equipment, status, active_jobs, updated_at FROM employees`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if skill != "" {
		args = append(args, skill)
		wheres = append(wheres, fmt.Sprintf("$%d = ANY(skills)", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY active_jobs ASC, id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Employee
	for rows.Next() {
		var e models.Employee
		var lat, lon *float64
		if err := rows.Scan(&e.ID, &e.Name, &lat, &lon, &e.Skills, &e.Equipment, &e.Status, &e.ActiveJobs, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Location = coordFromCols(lat, lon)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTaskAssignment(ctx context.Context, tx pgx.Tx, taskID string, employeeID *string, employeeName string) error {
	_, err := tx.Exec(ctx, `
		UPDATE tasks SET assigned_to = $1, assigned_to_name = $2 WHERE id = $3
	`, employeeID, employeeName, taskID)
	return err
}

func (s *Store) UpdateEmployeeActiveJobs(ctx context.Context, tx pgx.Tx, employeeID string, delta int) error {
	_, err := tx.Exec(ctx, `UPDATE employees SET active_jobs = GREATEST(active_jobs + $1, 0), updated_at = NOW() WHERE id = $2`, delta, employeeID)
	return err
}

func (s *Store) CreateRun(ctx context.Context, jobID, status string) (string, error) {
	id := uuid.NewString()
	_, err := s.Pool.Exec(ctx, `INSERT INTO runs (id, job_id, status, started_at) VALUES ($1, $2, $3, NOW())`, id, jobID, status)
	return id, err
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, summary []byte) error {
	_, err := s.Pool.Exec(ctx, `UPDATE runs SET status = $1, summary = $2, finished_at = NOW() WHERE id = $3`, status, summary, runID)
	return err
}

func (s *Store) GetLatestRun(ctx context.Context) (map[string]any, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, job_id, started_at, finished_at, status, summary FROM runs ORDER BY started_at DESC LIMIT 1`)
	var (
		id       string
		jobID    string
		started  time.Time
		finished *time.Time
		status   string
		summary  []byte
	)
	if err := row.Scan(&id, &jobID, &started, &finished, &status, &summary); err != nil {
		return nil, err
	}
	return map[string]any{
		"id":          id,
		"job_id":      jobID,
		"started_at":  started,
		"finished_at": finished,
		"status":      status,
		"summary":     summary,
	}, nil
}

// Reassign moves a task to another employee, keeping both active-job counters
// consistent in one transaction.
func (s *Store) Reassign(ctx context.Context, taskID, employeeID, employeeName string) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		var prev *string
		if err := tx.QueryRow(ctx, `SELECT assigned_to FROM tasks WHERE id = $1`, taskID).Scan(&prev); err != nil {
			return err
		}

		if prev != nil {
			if *prev != employeeID {
				if err := s.UpdateEmployeeActiveJobs(ctx, tx, *prev, -1); err != nil {
					return err
				}
				if err := s.UpdateEmployeeActiveJobs(ctx, tx, employeeID, 1); err != nil {
					return err
				}
			}
		} else {
			if err := s.UpdateEmployeeActiveJobs(ctx, tx, employeeID, 1); err != nil {
				return err
			}
		}

		return s.UpdateTaskAssignment(ctx, tx, taskID, &employeeID, employeeName)
	})
}

func scanJob(row pgx.Row) (models.Job, error) {
	var j models.Job
	var lat, lon *float64
	if err := row.Scan(&j.ID, &j.Category, &j.Subtype, &j.Address, &lat, &lon, &j.EquipmentNeeded, &j.EmployeeIDs, &j.Status, &j.ScheduledAt, &j.CreatedAt); err != nil {
		return models.Job{}, err
	}
	j.Location = coordFromCols(lat, lon)
	return j, nil
}

func coordCols(c *models.Coordinate) (*float64, *float64) {
	if c == nil {
		return nil, nil
	}
	lat, lon := c.Lat, c.Lon
	return &lat, &lon
}

func coordFromCols(lat, lon *float64) *models.Coordinate {
	if lat == nil || lon == nil {
		return nil
	}
	return &models.Coordinate{Lat: *lat, Lon: *lon}
}
