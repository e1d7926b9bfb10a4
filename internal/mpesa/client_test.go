package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fundflow/internal/domain"
)

func fixedClock() time.Time {
	return time.Date(2019, 11, 22, 6, 38, 45, 0, time.UTC)
}

func TestTokenExchange(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/v1/generate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("grant_type"); got != "client_credentials" {
			t.Fatalf("unexpected grant_type: %s", got)
		}
		want := "Basic " + base64.StdEncoding.EncodeToString([]byte("key:secret"))
		if got := r.Header.Get("Authorization"); got != want {
			t.Fatalf("unexpected auth header: %s", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123", "expires_in": "3599"})
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL, ConsumerKey: "key", ConsumerSecret: "secret"})
	token, err := client.Token(context.Background())
	if err != nil {
		t.Fatalf("Token error: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token: %s", token)
	}
}

func TestTokenMissingCredentials(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://unused.invalid"})
	_, err := client.Token(context.Background())
	if !errors.Is(err, domain.ErrGatewayAuth) {
		t.Fatalf("expected ErrGatewayAuth, got %v", err)
	}
}

func TestTokenNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL, ConsumerKey: "key", ConsumerSecret: "bad"})
	if _, err := client.Token(context.Background()); !errors.Is(err, domain.ErrGatewayAuth) {
		t.Fatalf("expected ErrGatewayAuth, got %v", err)
	}
}

func TestTokenBodyWithoutAccessToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"expires_in": "3599"})
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL, ConsumerKey: "key", ConsumerSecret: "secret"})
	if _, err := client.Token(context.Background()); !errors.Is(err, domain.ErrGatewayAuth) {
		t.Fatalf("expected ErrGatewayAuth, got %v", err)
	}
}

func TestRequestPaymentBuildsDarajaPayload(t *testing.T) {
	var captured stkPushRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
		case "/mpesa/stkpush/v1/processrequest":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Fatalf("unexpected bearer header: %s", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
				t.Fatalf("decode request: %v", err)
			}
			_ = json.NewEncoder(w).Encode(STKPushResponse{
				MerchantRequestID:   "29115-34620561-1",
				CheckoutRequestID:   "ws_CO_191220191020363925",
				ResponseCode:        "0",
				ResponseDescription: "Success. Request accepted for processing",
			})
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer ts.Close()

	client := NewClient(Options{
		BaseURL:        ts.URL,
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Passkey:        "passkey",
		ShortCode:      "174379",
		CallbackURL:    "https://fundflow.example.org/api/mpesa-callback",
		Now:            fixedClock,
	})

	resp, err := client.RequestPayment(context.Background(), "254712345678", 1500, "Donation-abc", "Donation for project xyz")
	if err != nil {
		t.Fatalf("RequestPayment error: %v", err)
	}
	if !resp.Accepted() {
		t.Fatalf("expected accepted response, got %+v", resp)
	}
	if resp.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Fatalf("unexpected checkout id: %s", resp.CheckoutRequestID)
	}

	if captured.Timestamp != "20191122063845" {
		t.Fatalf("unexpected timestamp: %s", captured.Timestamp)
	}
	wantPassword := base64.StdEncoding.EncodeToString([]byte("174379" + "passkey" + "20191122063845"))
	if captured.Password != wantPassword {
		t.Fatalf("unexpected password: %s", captured.Password)
	}
	if captured.TransactionType != "CustomerPayBillOnline" {
		t.Fatalf("unexpected transaction type: %s", captured.TransactionType)
	}
	if captured.PartyA != "254712345678" || captured.PhoneNumber != "254712345678" {
		t.Fatalf("payer mismatch: %+v", captured)
	}
	if captured.PartyB != "174379" || captured.BusinessShortCode != "174379" {
		t.Fatalf("shortcode mismatch: %+v", captured)
	}
	if captured.Amount != 1500 {
		t.Fatalf("unexpected amount: %d", captured.Amount)
	}
	if captured.CallBackURL != "https://fundflow.example.org/api/mpesa-callback" {
		t.Fatalf("unexpected callback url: %s", captured.CallBackURL)
	}
}

func TestRequestPaymentRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "tok-123"})
		default:
			_ = json.NewEncoder(w).Encode(STKPushResponse{
				ResponseCode:        "1",
				ResponseDescription: "Invalid PhoneNumber",
			})
		}
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL, ConsumerKey: "key", ConsumerSecret: "secret", ShortCode: "174379"})
	resp, err := client.RequestPayment(context.Background(), "254700000000", 10, "ref", "desc")
	if err != nil {
		t.Fatalf("RequestPayment error: %v", err)
	}
	if resp.Accepted() {
		t.Fatalf("expected rejection, got %+v", resp)
	}
	if resp.ResponseDescription != "Invalid PhoneNumber" {
		t.Fatalf("unexpected description: %s", resp.ResponseDescription)
	}
}

func TestCallbackMetadataExtraction(t *testing.T) {
	raw := `{
	  "Body": {
	    "stkCallback": {
	      "MerchantRequestID": "29115-34620561-1",
	      "CheckoutRequestID": "ws_CO_191220191020363925",
	      "ResultCode": 0,
	      "ResultDesc": "The service request is processed successfully.",
	      "CallbackMetadata": {
	        "Item": [
	          {"Name": "Amount", "Value": 1500.00},
	          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
	          {"Name": "TransactionDate", "Value": 20191219102115},
	          {"Name": "PhoneNumber", "Value": 254712345678}
	        ]
	      }
	    }
	  }
	}`

	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}
	cb := envelope.Body.STKCallback
	if !cb.Succeeded() {
		t.Fatalf("expected success, got %+v", cb)
	}
	if got := cb.ReceiptNumber(); got != "NLJ7RT61SV" {
		t.Fatalf("unexpected receipt: %q", got)
	}
	if got := cb.TransactionDate(); got != "20191219102115" {
		t.Fatalf("unexpected transaction date: %q", got)
	}
	if got := cb.MetadataValue("Missing"); got != "" {
		t.Fatalf("expected empty value for missing name, got %q", got)
	}
}

func TestCallbackWithoutMetadata(t *testing.T) {
	raw := `{"Body":{"stkCallback":{"CheckoutRequestID":"ws_CO_1","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`
	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}
	cb := envelope.Body.STKCallback
	if cb.Succeeded() {
		t.Fatalf("expected failure, got %+v", cb)
	}
	if got := cb.ReceiptNumber(); got != "" {
		t.Fatalf("expected empty receipt, got %q", got)
	}
}
