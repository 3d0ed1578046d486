package app

import (
	"context"
	"fmt"

	"github.com/freightdocs/golang_services/internal/ledger_service/domain"
)

type numberYear struct {
	number int
	year   int
}

// DetectGaps reconstructs each year's expected numbering range and returns
// the numbers with no ledger entry, ordered by year then number. Numbering is
// independent per year; candidates are never compared across years. A gap is
// explained (IsDiscard) when an active DISCARD warning decodes to the same
// document number with a document date in the same year — matching is on
// (number, year) only, not genre, mirroring the stored reconciliation views.
func (s *LedgerService) DetectGaps(ctx context.Context) ([]domain.GapEntry, error) {
	defer observe("detect_gaps")()

	points, err := s.deliveryRepo.ListYearNumberMonths(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("ledger scan failed: %w", err)
	}

	discards, err := s.ListDecodedDiscardMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("discard projection failed: %w", err)
	}
	discarded := make(map[numberYear]bool, len(discards))
	for _, d := range discards {
		if d.DocumentNumber != nil && d.DocumentDate != nil {
			discarded[numberYear{*d.DocumentNumber, d.DocumentDate.Year()}] = true
		}
	}

	var gaps []domain.GapEntry
	explained, unexplained := 0, 0

	// points arrive ordered (year asc, number asc); walk one year at a time.
	for i := 0; i < len(points); {
		year := points[i].DocumentYear
		j := i
		for j < len(points) && points[j].DocumentYear == year {
			j++
		}
		yearPoints := points[i:j]
		i = j

		minN := yearPoints[0].DocumentNumber
		maxN := yearPoints[len(yearPoints)-1].DocumentNumber

		// prevMonth tracks the month of the nearest recorded number below the
		// current candidate; numbering order stands in for filing chronology.
		var prevMonth *int
		idx := 0
		for n := minN; n <= maxN; n++ {
			if idx < len(yearPoints) && yearPoints[idx].DocumentNumber == n {
				m := yearPoints[idx].DocumentMonth
				prevMonth = &m
				idx++
				continue
			}

			entry := domain.GapEntry{
				DocumentNumber: n,
				DocumentYear:   year,
				IsDiscard:      discarded[numberYear{n, year}],
			}
			if prevMonth != nil {
				m := *prevMonth
				entry.DocumentMonth = &m
			}
			gaps = append(gaps, entry)

			if entry.IsDiscard {
				explained++
			} else {
				unexplained++
			}
		}
	}

	gapsDetectedCounter.WithLabelValues("explained").Add(float64(explained))
	gapsDetectedCounter.WithLabelValues("unexplained").Add(float64(unexplained))
	return gaps, nil
}

// FileGapWarnings files a GAP warning for every unexplained gap that does not
// already have an active GAP message, and reports how many were filed.
// Explained gaps are accounted for by their discard and stay silent.
func (s *LedgerService) FileGapWarnings(ctx context.Context) (int, error) {
	defer observe("file_gap_warnings")()

	gaps, err := s.DetectGaps(ctx)
	if err != nil {
		return 0, err
	}

	existing, err := s.ListDecodedGapMessages(ctx)
	if err != nil {
		return 0, err
	}
	alreadyFiled := make(map[numberYear]bool, len(existing))
	for _, g := range existing {
		alreadyFiled[numberYear{g.DocumentNumber, g.DocumentYear}] = true
	}

	filed := 0
	for _, gap := range gaps {
		if gap.IsDiscard || alreadyFiled[numberYear{gap.DocumentNumber, gap.DocumentYear}] {
			continue
		}
		msg, err := s.RecordWarning(ctx, domain.WarningGenreGap,
			domain.FormatGapMessage(gap.DocumentNumber, gap.DocumentYear))
		if err != nil {
			return filed, fmt.Errorf("filing gap warning for %d/%d failed: %w",
				gap.DocumentNumber, gap.DocumentYear, err)
		}
		s.publishGapDetected(ctx, msg.ID, gap.DocumentNumber, gap.DocumentYear)
		filed++
	}

	if filed > 0 {
		s.logger.InfoContext(ctx, "gap warnings filed", "count", filed)
	}
	return filed, nil
}
