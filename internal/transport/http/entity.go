// nolint: revive,staticcheck
// swagger:meta
package httpt

import "github.com/caiomioto2/workshop-athena-checkout/internal/entity"

// swagger:model ErrorResponse
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
}

// swagger:model CheckoutRequest
type CheckoutRequest entity.CheckoutRequest

// swagger:model ChargeResult
type ChargeResult entity.ChargeResult

// swagger:model VerificationRequest
type VerificationRequest entity.VerificationRequest

// swagger:model VerificationResult
type VerificationResult entity.VerificationResult
