package domain

import "time"

// DonationStatus is the lifecycle state of a donation. A donation starts
// pending and makes exactly one terminal transition, to completed or failed.
// A donation whose callback never arrives stays pending indefinitely.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
)

// Donation represents a supporter contribution record. Amounts are whole
// Kenyan shillings. The checkout/merchant request ids correlate the row with
// the gateway's asynchronous result.
type Donation struct {
	ID                 string
	ProjectID          string
	Amount             int64
	PhoneNumber        string
	Status             DonationStatus
	CheckoutRequestID  string
	MerchantRequestID  string
	MpesaReceiptNumber string
	TransactionDate    string
	FailureReason      string
	DonorCountry       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
