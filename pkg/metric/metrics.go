package metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Provider() Provider
		SideEffect() SideEffect
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	// Provider observes outbound calls to the external payment APIs.
	Provider interface {
		Call(provider, operation, outcome string, duration time.Duration)
	}

	// SideEffect counts best-effort notification and ledger attempts.
	// Failures here never surface to callers, so the counter is the
	// only place they remain visible.
	SideEffect interface {
		Sent(sink string)
		Failed(sink string)
	}
)

const (
	OutcomeOK            = "ok"
	OutcomeProviderError = "provider_error"
	OutcomeNetworkError  = "network_error"
)
