//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"scamguard/domain"
)

// Engine is the tensor-inference runtime behind the classifier. It consumes
// a fixed-length encoded sequence and produces a raw scam score already
// clamped to [0,1].
type Engine interface {
	Infer(seq []int64) (float64, error)
	Close() error
}

// Scorer is the public face of the risk pipeline. Predict absorbs every
// failure into a score of 0; Score keeps the failure visible.
type Scorer interface {
	Score(text string) (domain.Prediction, error)
	Predict(text string) float64
	Close() error
}

// Flagger spots known scam phrases in a message.
type Flagger interface {
	Flag(text string) []string
}

// ScanStore persists scan reports for later inspection.
type ScanStore interface {
	Store(report domain.ScanReport) error
	Recent(limit int) ([]domain.ScanReport, error)
	Search(ctx context.Context, query string, limit int) ([]string, error)
}
