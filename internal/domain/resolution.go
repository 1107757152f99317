package domain

import "time"

type ResolutionKind string

const (
	KindQuote   ResolutionKind = "quote"
	KindHistory ResolutionKind = "history"
	KindCrypto  ResolutionKind = "crypto"
)

// FailureReason tags why a provider could not answer.
type FailureReason string

const (
	ReasonNetwork   FailureReason = "network_error"
	ReasonRateLimit FailureReason = "rate_limited"
	ReasonNotFound  FailureReason = "not_found"
	ReasonMalformed FailureReason = "malformed_payload"
	ReasonEmpty     FailureReason = "empty_result"
)

type ProviderFailure struct {
	Provider string
	Reason   FailureReason
	Message  string
}

// Resolution is the outcome of one fallback walk.
type Resolution struct {
	ID         int64
	Kind       ResolutionKind
	Symbol     string
	Period     Period
	Provenance Provenance
	Source     string
	Failures   []ProviderFailure
	NotFound   bool
	ResolvedAt time.Time
}
