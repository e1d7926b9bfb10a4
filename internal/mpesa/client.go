package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fundflow/internal/domain"
)

// Options configures a Daraja API client. Credentials come from the
// application config; tests inject an httptest server via BaseURL.
type Options struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Passkey        string
	ShortCode      string
	CallbackURL    string
	HTTPClient     *http.Client
	Timeout        time.Duration
	Now            func() time.Time
}

// Client talks to the M-Pesa Daraja API: OAuth token exchange plus STK Push
// payment requests.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	passkey        string
	shortCode      string
	callbackURL    string
	now            func() time.Time
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://sandbox.safaricom.co.ke"
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		httpClient:     client,
		baseURL:        base,
		consumerKey:    strings.TrimSpace(opts.ConsumerKey),
		consumerSecret: strings.TrimSpace(opts.ConsumerSecret),
		passkey:        strings.TrimSpace(opts.Passkey),
		shortCode:      strings.TrimSpace(opts.ShortCode),
		callbackURL:    strings.TrimSpace(opts.CallbackURL),
		now:            now,
	}
}

// Token performs the client-credentials exchange and returns a bearer token.
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.consumerKey == "" || c.consumerSecret == "" {
		return "", fmt.Errorf("mpesa: consumer credentials unset: %w", domain.ErrGatewayAuth)
	}
	endpoint := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.consumerKey + ":" + c.consumerSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("mpesa: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("mpesa: token endpoint returned %d: %w", resp.StatusCode, domain.ErrGatewayAuth)
	}
	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("mpesa: decode token response: %w", err)
	}
	if strings.TrimSpace(body.AccessToken) == "" {
		return "", fmt.Errorf("mpesa: token response missing access_token: %w", domain.ErrGatewayAuth)
	}
	return body.AccessToken, nil
}

// RequestPayment sends an STK Push prompt to the payer's phone. The phone
// number must already be in 254 form (see FormatPhone). The returned response
// carries the correlation ids for the asynchronous result.
func (c *Client) RequestPayment(ctx context.Context, phone string, amount int64, accountRef, description string) (*STKPushResponse, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := c.stkPassword()
	payload := stkPushRequest{
		BusinessShortCode: c.shortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            phone,
		PartyB:            c.shortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.callbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   description,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/mpesa/stkpush/v1/processrequest"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mpesa: stkpush request: %w", err)
	}
	defer resp.Body.Close()

	var out STKPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("mpesa: stkpush returned %d: %w", resp.StatusCode, domain.ErrGatewayRequest)
		}
		return nil, fmt.Errorf("mpesa: decode stkpush response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest && out.ResponseDescription == "" {
		return nil, fmt.Errorf("mpesa: stkpush returned %d: %w", resp.StatusCode, domain.ErrGatewayRequest)
	}
	return &out, nil
}

// stkPassword derives the push-request password: base64 of shortcode,
// passkey and a YYYYMMDDHHMMSS timestamp.
func (c *Client) stkPassword() (string, string) {
	timestamp := c.now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString([]byte(c.shortCode + c.passkey + timestamp))
	return password, timestamp
}
