package handlers

import (
	"encoding/json"
	"net/http"

	"fundflow/internal/domain"
	"fundflow/internal/infra"
	"fundflow/internal/mpesa"
	"fundflow/internal/sqlinline"
)

// MpesaCallback receives the gateway's asynchronous payment result. The
// handler acknowledges success unconditionally, whatever happens inside:
// any non-success answer makes the gateway re-deliver the notification,
// and a retry storm is worse than a logged failure.
func (a *App) MpesaCallback(w http.ResponseWriter, r *http.Request) {
	ack := map[string]any{"ResultCode": 0, "ResultDesc": "Callback processed successfully"}

	var envelope mpesa.CallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		a.Logger.Error().Err(err).Msg("callback: undecodable payload")
		a.json(w, http.StatusOK, ack)
		return
	}
	cb := envelope.Body.STKCallback
	if cb.CheckoutRequestID == "" {
		a.Logger.Warn().Msg("callback: missing CheckoutRequestID")
		a.json(w, http.StatusOK, ack)
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectDonationByCheckout, cb.CheckoutRequestID)
	var (
		donationID string
		projectID  string
		amount     int64
		status     string
	)
	if err := row.Scan(&donationID, &projectID, &amount, &status); err != nil {
		if infra.IsNoRows(err) {
			a.Logger.Warn().Str("checkout_request_id", cb.CheckoutRequestID).Msg("callback: donation not found")
		} else {
			a.Logger.Error().Err(err).Str("checkout_request_id", cb.CheckoutRequestID).Msg("callback: lookup failed")
		}
		a.json(w, http.StatusOK, ack)
		return
	}

	if cb.Succeeded() {
		tag, err := a.SQL.Exec(r.Context(), sqlinline.QCompleteDonation, donationID, cb.ReceiptNumber(), cb.TransactionDate())
		if err != nil {
			a.Logger.Error().Err(err).Str("donation_id", donationID).Msg("callback: complete donation failed")
			a.json(w, http.StatusOK, ack)
			return
		}
		// The pending guard makes the terminal transition one-shot; only the
		// delivery that actually flipped the row credits the project. The
		// increment itself is a single UPDATE, so concurrent callbacks for
		// the same project cannot lose an update.
		if tag.RowsAffected() == 1 {
			if _, err := a.SQL.Exec(r.Context(), sqlinline.QIncrementProjectAmount, projectID, amount); err != nil {
				a.Logger.Error().Err(err).Str("project_id", projectID).Msg("callback: increment project total failed")
			}
		} else if status != string(domain.DonationPending) {
			a.Logger.Warn().Str("donation_id", donationID).Str("status", status).Msg("callback: duplicate delivery ignored")
		}
	} else {
		if _, err := a.SQL.Exec(r.Context(), sqlinline.QMarkDonationFailed, donationID, cb.ResultDesc); err != nil {
			a.Logger.Error().Err(err).Str("donation_id", donationID).Msg("callback: mark donation failed errored")
		}
	}

	a.json(w, http.StatusOK, ack)
}
