package entity

// CheckoutRequest is the normalized buyer tuple built from a form
// submission. It only lives for the duration of one request; nothing
// is persisted locally.
type CheckoutRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	// Amount is in centavos. Gateways that bill in reais convert on
	// their side of the mapping.
	Amount   int64  `json:"amount"`
	OrderNSU string `json:"order_nsu"`
}

// ChargeResult is the uniform shape extracted from the provider
// response, whichever fields the provider happens to return. Success
// is the response envelope flag; the transport sets it before writing.
type ChargeResult struct {
	Success    bool   `json:"success"`
	Provider   string `json:"provider"`
	BillingID  string `json:"billingId"`
	PaymentURL string `json:"paymentUrl,omitempty"`
	QRCode     string `json:"qrCode,omitempty"`
	QRCodeURL  string `json:"qrCodeUrl,omitempty"`
	Deeplink   string `json:"deeplink,omitempty"`
	Amount     int64  `json:"amount"`
	ExpiresAt  string `json:"expiresAt,omitempty"`
}

// VerificationRequest keys the synchronous payment_check call. All
// four identifiers are required by the provider.
type VerificationRequest struct {
	Handle         string `json:"handle"`
	OrderNSU       string `json:"order_nsu"`
	TransactionNSU string `json:"transaction_nsu"`
	Slug           string `json:"slug"`
}

func (r *VerificationRequest) MissingFields() []string {
	var missing []string
	if r.Handle == "" {
		missing = append(missing, "handle")
	}
	if r.OrderNSU == "" {
		missing = append(missing, "order_nsu")
	}
	if r.TransactionNSU == "" {
		missing = append(missing, "transaction_nsu")
	}
	if r.Slug == "" {
		missing = append(missing, "slug")
	}
	return missing
}

type VerificationResult struct {
	Success       bool   `json:"success"`
	Paid          bool   `json:"paid"`
	Amount        int64  `json:"amount"`
	PaidAmount    int64  `json:"paid_amount"`
	Installments  int    `json:"installments"`
	CaptureMethod string `json:"capture_method"`
}
