package entity

// PaymentStatus values as the providers report them. The provider is
// always the source of truth for whether money moved.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusApproved PaymentStatus = "approved"
	StatusRejected PaymentStatus = "rejected"
	StatusPaid     PaymentStatus = "paid"
)

// PaymentDetail is the normalized view of a provider payment used by
// webhook side effects. Webhook bodies are often thin pointers, so the
// detail is fetched back from the provider when needed.
type PaymentDetail struct {
	Provider   string
	PaymentID  string
	Status     PaymentStatus
	Amount     int64
	PaidAmount int64
	PayerName  string
	PayerEmail string
	PayerPhone string
	ApprovedAt string
}

// InfinitePayWebhook is the payment-confirmation callback body.
type InfinitePayWebhook struct {
	InvoiceSlug    string         `json:"invoice_slug"`
	Amount         int64          `json:"amount"`
	PaidAmount     int64          `json:"paid_amount"`
	Installments   int            `json:"installments"`
	CaptureMethod  string         `json:"capture_method"`
	TransactionNSU string         `json:"transaction_nsu"`
	OrderNSU       string         `json:"order_nsu"`
	ReceiptURL     string         `json:"receipt_url"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

func (w *InfinitePayWebhook) MissingFields() []string {
	var missing []string
	if w.TransactionNSU == "" {
		missing = append(missing, "transaction_nsu")
	}
	if w.OrderNSU == "" {
		missing = append(missing, "order_nsu")
	}
	if w.InvoiceSlug == "" {
		missing = append(missing, "invoice_slug")
	}
	return missing
}

// AbacateWebhook carries the event name plus the charge it refers to.
// Deliveries have arrived in three shapes: "charge", older "billing",
// and an envelope with the payment nested under "data", so all are
// decoded.
type AbacateWebhook struct {
	Event   string         `json:"event"`
	Charge  *AbacateCharge `json:"charge,omitempty"`
	Billing *AbacateCharge `json:"billing,omitempty"`
	Data    *AbacateData   `json:"data,omitempty"`
}

type AbacateData struct {
	Payment *AbacatePaymentRef `json:"payment,omitempty"`
	Order   *AbacateOrderRef   `json:"order,omitempty"`
}

type AbacatePaymentRef struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Amount int64  `json:"amount"`
}

type AbacateOrderRef struct {
	ExternalID string `json:"external_id"`
}

type AbacateCharge struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Amount   int64           `json:"amount"`
	Customer AbacateCustomer `json:"customer"`
}

type AbacateCustomer struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Cellphone string `json:"cellphone"`
	TaxID     string `json:"taxId"`
}

// ChargeOf returns whichever key the delivery used, synthesizing a
// charge from the data envelope when that is the only shape present.
func (w *AbacateWebhook) ChargeOf() *AbacateCharge {
	if w.Charge != nil {
		return w.Charge
	}
	if w.Billing != nil {
		return w.Billing
	}
	if w.Data != nil && w.Data.Payment != nil {
		return &AbacateCharge{
			ID:     w.Data.Payment.ID,
			Status: w.Data.Payment.Status,
			Amount: w.Data.Payment.Amount,
		}
	}
	return nil
}
