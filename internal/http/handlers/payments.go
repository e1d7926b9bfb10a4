package handlers

import (
	"encoding/json"
	"net/http"

	"fundflow/internal/middleware"
	"fundflow/internal/mpesa"
	"fundflow/internal/sqlinline"
)

type stkPushPayload struct {
	Amount    int64  `json:"amount"`
	Phone     string `json:"phone"`
	ProjectID string `json:"projectId"`
}

// StkPush initiates a mobile-money donation. The pending donation row is
// written before the gateway is contacted so a push failure still leaves an
// auditable record; there is deliberately no rollback of that row.
func (a *App) StkPush(w http.ResponseWriter, r *http.Request) {
	var req stkPushPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Amount <= 0 || req.Phone == "" || req.ProjectID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "amount, phone and projectId are required")
		return
	}

	phone := mpesa.FormatPhone(req.Phone)
	country := middleware.CountryFromContext(r.Context())

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertDonation, req.ProjectID, req.Amount, phone, nullable(country))
	var donationID string
	if err := row.Scan(&donationID); err != nil {
		a.Logger.Error().Err(err).Str("project_id", req.ProjectID).Msg("create donation failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create donation record")
		return
	}

	resp, err := a.Gateway.RequestPayment(r.Context(), phone, req.Amount,
		"Donation-"+donationID, "Donation for project "+req.ProjectID)
	if err != nil {
		// The pending row stays behind for reconciliation by hand.
		a.Logger.Error().Err(err).Str("donation_id", donationID).Msg("stk push failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
		return
	}

	if !resp.Accepted() {
		reason := resp.ResponseDescription
		if reason == "" {
			reason = "STK Push failed"
		}
		if _, err := a.SQL.Exec(r.Context(), sqlinline.QMarkDonationFailed, donationID, reason); err != nil {
			a.Logger.Error().Err(err).Str("donation_id", donationID).Msg("mark donation failed errored")
		}
		a.json(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   reason,
		})
		return
	}

	if _, err := a.SQL.Exec(r.Context(), sqlinline.QSetDonationCheckout, donationID, resp.CheckoutRequestID, resp.MerchantRequestID); err != nil {
		a.Logger.Error().Err(err).Str("donation_id", donationID).Msg("store correlation ids failed")
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":           true,
		"message":           "STK Push sent successfully",
		"checkoutRequestId": resp.CheckoutRequestID,
		"donationId":        donationID,
	})
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
