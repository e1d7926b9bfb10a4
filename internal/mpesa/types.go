package mpesa

import "fmt"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the gateway's synchronous answer to a push request.
// ResponseCode is a string on the wire; "0" means the prompt was accepted and
// an asynchronous result will follow.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Accepted reports whether the gateway accepted the push request.
func (r *STKPushResponse) Accepted() bool {
	return r != nil && r.ResponseCode == "0"
}

// CallbackEnvelope is the body the gateway POSTs once a payment result is
// known.
type CallbackEnvelope struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string `json:"MerchantRequestID"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
	ResultCode        int    `json:"ResultCode"`
	ResultDesc        string `json:"ResultDesc"`
	CallbackMetadata  *struct {
		Item []MetadataItem `json:"Item"`
	} `json:"CallbackMetadata"`
}

type MetadataItem struct {
	Name  string `json:"Name"`
	Value any    `json:"Value"`
}

// Succeeded reports whether the asynchronous result is a successful payment.
func (c *STKCallback) Succeeded() bool {
	return c != nil && c.ResultCode == 0
}

// MetadataValue name-matches the variable-length metadata item list and
// returns the named value as a string, or "" when absent.
func (c *STKCallback) MetadataValue(name string) string {
	if c == nil || c.CallbackMetadata == nil {
		return ""
	}
	for _, item := range c.CallbackMetadata.Item {
		if item.Name != name {
			continue
		}
		switch v := item.Value.(type) {
		case nil:
			return ""
		case string:
			return v
		case float64:
			// Receipt dates arrive as bare numbers (e.g. 20191122063845);
			// they fit in the float64 integer range.
			return fmt.Sprintf("%.0f", v)
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

// ReceiptNumber returns the MpesaReceiptNumber metadata entry, if present.
func (c *STKCallback) ReceiptNumber() string {
	return c.MetadataValue("MpesaReceiptNumber")
}

// TransactionDate returns the TransactionDate metadata entry, if present.
func (c *STKCallback) TransactionDate() string {
	return c.MetadataValue("TransactionDate")
}
