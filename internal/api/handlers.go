package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/joshharrison/taskweave/internal/service"
	"github.com/joshharrison/taskweave/internal/task"
)

type createTaskRequest struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssignedTo     string     `json:"assigned_to"`
	Dependencies   []string   `json:"dependencies"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours"`
	Progress       int        `json:"progress"`
}

type dependenciesRequest struct {
	Dependencies []string `json:"dependencies"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type progressRequest struct {
	Progress *int `json:"progress"`
}

type bulkStatusRequest struct {
	Status  string   `json:"status"`
	TaskIDs []string `json:"task_ids"`
}

type bulkResult struct {
	TaskID  string     `json:"task_id"`
	Success bool       `json:"success"`
	Task    *task.Task `json:"task,omitempty"`
	Error   string     `json:"error,omitempty"`
	Kind    string     `json:"kind,omitempty"`
}

// ListTasks handles GET /projects/{projectID}/tasks
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	q := r.URL.Query()

	var f service.Filter
	if s := q.Get("status"); s != "" {
		st, err := task.ParseStatus(s)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		f.Status = st
	}
	f.Assignee = q.Get("assignee")
	if s := q.Get("overdue"); s != "" {
		overdue, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "overdue must be a boolean")
			return
		}
		f.Overdue = overdue
	}

	tasks, err := h.Service.ListTasks(r.Context(), projectID, f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /projects/{projectID}/tasks
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[createTaskRequest](w, r)
	if !ok {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	t := task.Task{
		ID:             req.ID,
		ProjectID:      chi.URLParam(r, "projectID"),
		Title:          req.Title,
		Description:    req.Description,
		AssignedTo:     req.AssignedTo,
		Dependencies:   req.Dependencies,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
		EstimatedHours: req.EstimatedHours,
		Progress:       req.Progress,
	}
	if req.Status != "" {
		st, err := task.ParseStatus(req.Status)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		t.Status = st
	}
	if req.Priority != "" {
		p, err := task.ParsePriority(req.Priority)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		t.Priority = p
	}

	created, err := h.Service.CreateTask(r.Context(), t)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTask handles GET /tasks/{taskID}
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.Service.GetTask(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// DeleteTask handles DELETE /tasks/{taskID}
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeleteTask(r.Context(), chi.URLParam(r, "taskID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AnalyzeTask handles GET /tasks/{taskID}/analysis
func (h *Handlers) AnalyzeTask(w http.ResponseWriter, r *http.Request) {
	a, err := h.Service.AnalyzeTask(r.Context(), chi.URLParam(r, "taskID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ValidateDependencies handles POST /tasks/{taskID}/dependencies/validate.
// Nothing is written.
func (h *Handlers) ValidateDependencies(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[dependenciesRequest](w, r)
	if !ok {
		return
	}
	deps, err := h.Service.ValidateDependencyChange(r.Context(), chi.URLParam(r, "taskID"), req.Dependencies)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true, "dependencies": deps})
}

// SetDependencies handles PUT /tasks/{taskID}/dependencies
func (h *Handlers) SetDependencies(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[dependenciesRequest](w, r)
	if !ok {
		return
	}
	t, err := h.Service.SetDependencies(r.Context(), chi.URLParam(r, "taskID"), req.Dependencies)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// TransitionStatus handles POST /tasks/{taskID}/status
func (h *Handlers) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[statusRequest](w, r)
	if !ok {
		return
	}
	st, err := task.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	t, err := h.Service.TransitionStatus(r.Context(), chi.URLParam(r, "taskID"), st)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// SetProgress handles POST /tasks/{taskID}/progress
func (h *Handlers) SetProgress(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[progressRequest](w, r)
	if !ok {
		return
	}
	if req.Progress == nil {
		writeError(w, http.StatusBadRequest, "progress is required")
		return
	}
	t, err := h.Service.SetProgress(r.Context(), chi.URLParam(r, "taskID"), *req.Progress)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// BulkStatus handles POST /status/bulk. The response is 200 even when some
// tasks failed; each result says how it went.
func (h *Handlers) BulkStatus(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[bulkStatusRequest](w, r)
	if !ok {
		return
	}
	st, err := task.ParseStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	results := h.Service.BulkUpdateStatus(r.Context(), req.TaskIDs, st)
	out := make([]bulkResult, 0, len(results))
	for _, res := range results {
		br := bulkResult{TaskID: res.TaskID, Success: res.Success(), Task: res.Task}
		if res.Err != nil {
			br.Error = res.Err.Error()
			br.Kind = task.KindName(res.Err)
		}
		out = append(out, br)
	}
	writeJSON(w, http.StatusOK, out)
}

// Order handles GET /projects/{projectID}/order
func (h *Handlers) Order(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Service.Order(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CriticalPath handles GET /projects/{projectID}/critical-path
func (h *Handlers) CriticalPath(w http.ResponseWriter, r *http.Request) {
	res, err := h.Service.CriticalPath(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Graph handles GET /projects/{projectID}/graph
func (h *Handlers) Graph(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	g, res, err := h.Service.Schedule(r.Context(), projectID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toGraph(projectID, g, res))
}

// Stats handles GET /projects/{projectID}/stats
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Service.Stats(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
