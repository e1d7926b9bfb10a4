package handlers

import (
	"net/http"
	"time"

	"fundflow/internal/money"
	"fundflow/internal/sqlinline"
)

// DonationsRecent is the public cross-project donation feed.
func (a *App) DonationsRecent(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListRecentDonations, 10)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var (
			id, projectID, projectTitle, phone string
			amount                             int64
			createdAt                          time.Time
		)
		if err := rows.Scan(&id, &projectID, &projectTitle, &amount, &phone, &createdAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
			return
		}
		items = append(items, map[string]any{
			"id":             id,
			"project_id":     projectID,
			"project_title":  projectTitle,
			"amount":         amount,
			"amount_display": money.FormatKES(amount),
			"phone":          maskPhone(phone),
			"created_at":     createdAt,
		})
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load donations")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
