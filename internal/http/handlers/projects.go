package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"fundflow/internal/infra"
	"fundflow/internal/money"
	"fundflow/internal/sqlinline"
)

const maxImageUploadBytes = 5 << 20

type projectDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	GoalAmount    int64     `json:"goal_amount"`
	CurrentAmount int64     `json:"current_amount"`
	GoalDisplay   string    `json:"goal_display"`
	RaisedDisplay string    `json:"raised_display"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (a *App) projectDTO(id, title, description string, goal, current int64, imageKey string, createdAt, updatedAt time.Time) projectDTO {
	dto := projectDTO{
		ID:            id,
		Title:         title,
		Description:   description,
		GoalAmount:    goal,
		CurrentAmount: current,
		GoalDisplay:   money.FormatKES(goal),
		RaisedDisplay: money.FormatKES(current),
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
	if imageKey != "" {
		dto.ImageURL = a.Cfg.StorageBaseURL + "/" + imageKey
	}
	return dto
}

func (a *App) ListProjects(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListProjects)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load projects")
		return
	}
	defer rows.Close()

	items := []projectDTO{}
	for rows.Next() {
		var (
			id, title, description, imageKey string
			goal, current                    int64
			createdAt, updatedAt             time.Time
		)
		if err := rows.Scan(&id, &title, &description, &goal, &current, &imageKey, &createdAt, &updatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load projects")
			return
		}
		items = append(items, a.projectDTO(id, title, description, goal, current, imageKey, createdAt, updatedAt))
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load projects")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

func (a *App) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectProjectByID, projectID)
	var (
		id, title, description, imageKey string
		goal, current                    int64
		createdAt, updatedAt             time.Time
	)
	if err := row.Scan(&id, &title, &description, &goal, &current, &imageKey, &createdAt, &updatedAt); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to load project")
		return
	}
	a.json(w, http.StatusOK, a.projectDTO(id, title, description, goal, current, imageKey, createdAt, updatedAt))
}

// ProjectDonations lists recent completed donations for one project. Phone
// numbers are masked before leaving the API.
func (a *App) ProjectDonations(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListProjectDonations, projectID, 10)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var (
			id, phone, receipt string
			amount             int64
			createdAt          time.Time
		)
		if err := rows.Scan(&id, &amount, &phone, &receipt, &createdAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
			return
		}
		items = append(items, map[string]any{
			"id":             id,
			"amount":         amount,
			"amount_display": money.FormatKES(amount),
			"phone":          maskPhone(phone),
			"receipt":        receipt,
			"created_at":     createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type projectPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalAmount  int64  `json:"goal_amount"`
}

func (p *projectPayload) validate() string {
	if p.Title == "" {
		return "title is required"
	}
	if p.GoalAmount <= 0 {
		return "goal_amount must be positive"
	}
	return ""
}

func (a *App) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		a.error(w, http.StatusBadRequest, "bad_request", msg)
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertProject, req.Title, req.Description, req.GoalAmount, "")
	var id string
	if err := row.Scan(&id); err != nil {
		a.Logger.Error().Err(err).Msg("create project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create project")
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"id": id})
}

func (a *App) UpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	var req projectPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if msg := req.validate(); msg != "" {
		a.error(w, http.StatusBadRequest, "bad_request", msg)
		return
	}
	tag, err := a.SQL.Exec(r.Context(), sqlinline.QUpdateProject, projectID, req.Title, req.Description, req.GoalAmount)
	if err != nil {
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("update project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update project")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "project not found")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"id": projectID})
}

func (a *App) DeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	tag, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteProject, projectID)
	if err != nil {
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("delete project failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete project")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "project not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadProjectImage stores the raw request body as the project image and
// records the storage key on the project row.
func (a *App) UploadProjectImage(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	if a.Images == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "image storage is not configured")
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageUploadBytes+1))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read image")
		return
	}
	if len(data) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "image body is required")
		return
	}
	if len(data) > maxImageUploadBytes {
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", "image exceeds the size limit")
		return
	}
	ext := imageExtension(http.DetectContentType(data))
	if ext == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported image type")
		return
	}

	key := fmt.Sprintf("projects/%s/%s%s", projectID, uuid.NewString(), ext)
	storedKey, err := a.Images.Write(r.Context(), key, data)
	if err != nil {
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("store project image failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store image")
		return
	}
	tag, err := a.SQL.Exec(r.Context(), sqlinline.QSetProjectImage, projectID, storedKey)
	if err != nil {
		a.Logger.Error().Err(err).Str("project_id", projectID).Msg("record project image failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store image")
		return
	}
	if tag.RowsAffected() == 0 {
		a.error(w, http.StatusNotFound, "not_found", "project not found")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"image_url": a.Cfg.StorageBaseURL + "/" + storedKey})
}

func imageExtension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

// maskPhone hides the middle digits of a 254-form number.
func maskPhone(phone string) string {
	if len(phone) < 9 {
		return "***"
	}
	return phone[:6] + "***" + phone[len(phone)-3:]
}
