package domain

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is the outcome of one classifier run. A Degraded prediction
// carries a score of 0 that was produced by a fallback, not by the model.
type Prediction struct {
	Score    float64
	Degraded bool
}

type Verdict string

const (
	VerdictHigh       Verdict = "high"
	VerdictSuspicious Verdict = "suspicious"
	VerdictLow        Verdict = "low"
)

const (
	highRiskThreshold   = 0.75
	suspiciousThreshold = 0.40
)

// VerdictFor bands a clamped risk score into an operator-facing verdict.
func VerdictFor(score float64) Verdict {
	switch {
	case score >= highRiskThreshold:
		return VerdictHigh
	case score >= suspiciousThreshold:
		return VerdictSuspicious
	default:
		return VerdictLow
	}
}

// ScanReport is the full outcome of scanning one message.
type ScanReport struct {
	ID       uuid.UUID `json:"id"`
	Content  string    `json:"content"`
	Score    float64   `json:"score"`
	Verdict  Verdict   `json:"verdict"`
	Keywords []string  `json:"keywords,omitempty"`
	Language string    `json:"language,omitempty"`
	Degraded bool      `json:"degraded"`
	At       time.Time `json:"at"`
}
