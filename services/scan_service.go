package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"scamguard/contract"
	"scamguard/domain"
)

type IScanService interface {
	Scan(text string) (domain.ScanReport, error)
}

// ScanService runs a message through the risk classifier and the keyword
// flagger, attaches the detected language and persists the resulting
// report. The flagger and the store are optional collaborators.
type ScanService struct {
	scorer  contract.Scorer
	flagger contract.Flagger
	store   contract.ScanStore
	log     *slog.Logger
}

func NewScanService(scorer contract.Scorer, flagger contract.Flagger, store contract.ScanStore, log *slog.Logger) *ScanService {
	return &ScanService{scorer: scorer, flagger: flagger, store: store, log: log}
}

// Scan produces a report even when scoring degrades: a broken model yields
// a zero score flagged as degraded rather than an error, so the rest of
// the report (keywords, language) stays usable.
func (s *ScanService) Scan(text string) (domain.ScanReport, error) {
	prediction, err := s.scorer.Score(text)
	if err != nil {
		s.log.Warn("scoring degraded", "error", err)
	}

	info := whatlanggo.Detect(text)
	report := domain.ScanReport{
		ID:       uuid.New(),
		Content:  text,
		Score:    prediction.Score,
		Verdict:  domain.VerdictFor(prediction.Score),
		Language: info.Lang.Iso6391(),
		Degraded: prediction.Degraded,
		At:       time.Now().UTC(),
	}
	if s.flagger != nil {
		report.Keywords = lo.Uniq(s.flagger.Flag(text))
	}

	if report.Verdict == domain.VerdictHigh {
		s.log.Warn("high risk message",
			"score", report.Score,
			"lang", report.Language,
			"keywords", report.Keywords)
	}

	if s.store != nil {
		if err := s.store.Store(report); err != nil {
			return report, fmt.Errorf("store scan report: %w", err)
		}
	}
	return report, nil
}
