package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestStatsSummary(t *testing.T) {
	sql := &fakeSQL{
		onQueryRow: func(string, []any) pgx.Row {
			return simpleRow{scan: scanValues(int64(4), int64(120), int64(7), int64(3), int64(1250000))}
		},
	}
	w := httptest.NewRecorder()
	newTestApp(sql, nil).StatsSummary(w, httptest.NewRequest(http.MethodGet, "/api/stats/summary", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		TotalProjects      int64  `json:"total_projects"`
		CompletedDonations int64  `json:"completed_donations"`
		TotalRaised        int64  `json:"total_raised"`
		TotalRaisedDisplay string `json:"total_raised_display"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.TotalProjects != 4 || resp.CompletedDonations != 120 || resp.TotalRaised != 1250000 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.TotalRaisedDisplay != "KSh 1,250,000" {
		t.Fatalf("total_raised_display = %q", resp.TotalRaisedDisplay)
	}
}
