package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"

	"scamguard/domain"
	errs "scamguard/errors"
)

const scanPrefix = "scan:"

// ScanHistory persists scan reports in BadgerDB and indexes their content
// in Bluge for full-text search.
type ScanHistory struct {
	db     *badger.DB
	writer *bluge.Writer
	log    *slog.Logger
}

// NewScanHistory wires the store over an open Badger database. The Bluge
// writer may be nil, which disables Search but keeps Store and Recent
// working.
func NewScanHistory(db *badger.DB, writer *bluge.Writer, log *slog.Logger) *ScanHistory {
	return &ScanHistory{db: db, writer: writer, log: log}
}

// Store persists a report and indexes its content.
// The key is formatted as "scan:{timestamp_padded}:{uuid}" to:
//  1. Keep lexicographical and chronological order aligned using 19-digit
//     zero padding.
//  2. Prevent data loss by using the report UUID as a collision
//     disconnector if two reports land on the same nanosecond.
func (h *ScanHistory) Store(report domain.ScanReport) error {
	key := fmt.Sprintf("%s%019d:%s", scanPrefix, report.At.UnixNano(), report.ID)
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode scan report: %w", err)
	}
	err = h.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	})
	if err != nil {
		return fmt.Errorf("store scan report: %w", err)
	}
	if h.writer == nil {
		return nil
	}

	doc := bluge.NewDocument(report.ID.String()).
		AddField(bluge.NewTextField("content", report.Content).StoreValue()).
		AddField(bluge.NewKeywordField("verdict", string(report.Verdict)))
	if err := h.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index scan report: %w", err)
	}
	return nil
}

// Recent returns up to limit reports, newest first. Thanks to the padded
// timestamp in the key a reverse prefix scan walks them already sorted.
func (h *ScanHistory) Recent(limit int) ([]domain.ScanReport, error) {
	var payloads [][]byte
	err := h.db.View(func(txn *badger.Txn) error {
		prefix := []byte(scanPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		// Seek past the newest possible timestamp, then walk backwards.
		seekKey := append([]byte(scanPrefix), []byte("9999999999999999999")...)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(payloads) == limit {
				h.log.Debug(fmt.Sprintf("Maximum of %d reports reached", limit))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				payloads = append(payloads, append([]byte(nil), value...))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	reports := make([]domain.ScanReport, 0, len(payloads))
	for _, payload := range payloads {
		var report domain.ScanReport
		if err := json.Unmarshal(payload, &report); err != nil {
			return nil, fmt.Errorf("decode scan report: %w", err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Search runs a full-text match query over scanned message content and
// returns the IDs of matching reports, best first.
func (h *ScanHistory) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if h.writer == nil {
		return nil, errs.ErrSearchDisabled
	}
	reader, err := h.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open search reader: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	match := bluge.NewMatchQuery(query).SetField("content")
	request := bluge.NewTopNSearch(limit, match)
	iter, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search scan reports: %w", err)
	}

	var ids []string
	for {
		next, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		err = next.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				ids = append(ids, string(value))
			}
			return true
		})
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}
