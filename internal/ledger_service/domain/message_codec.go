package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The warning message text is a legacy wire format shared with every message
// already stored: structured fields embedded in free text between fixed
// markers. The marker strings below are a compatibility contract; changing
// any of them is a breaking schema change.

const (
	markerError   = "for error on "
	markerNumber  = "[number: "
	markerGenre   = ", genre: "
	markerDate    = ", date: "
	markerDateEnd = "]"
	markerDoc     = "of doc "
	markerDocEnd  = " discarded"
	markerPage    = "Page "
	markerPageEnd = " of doc "

	markerGapNumber = "doc number "
	markerGapYear   = " of year "

	nonePlaceholder = "None"

	dateLayout = "2006-01-02"
)

// FormatDiscardMessage renders the DISCARD template. Nil optionals render as
// the literal "None" placeholder the decoder recognizes.
func FormatDiscardMessage(page int, source string, errDetail string, number *int, genre *string, date *time.Time) string {
	num := nonePlaceholder
	if number != nil {
		num = strconv.Itoa(*number)
	}
	gen := nonePlaceholder
	if genre != nil {
		gen = *genre
	}
	dat := nonePlaceholder
	if date != nil {
		dat = date.Format(dateLayout)
	}
	return fmt.Sprintf("Page %d of doc %s discarded for error on %s [number: %s, genre: %s, date: %s]",
		page, source, errDetail, num, gen, dat)
}

// FormatGapMessage renders the GAP template.
func FormatGapMessage(number, year int) string {
	return fmt.Sprintf("Found gap for doc number %d of year %d", number, year)
}

// FormatSimilarityMessage renders the similarity-crash template used by the
// ingestion client when a vehicle or driver fails reference matching.
func FormatSimilarityMessage(field, value string, page int, source string) string {
	return fmt.Sprintf("Had similarity crash for %s %s on page %d of doc %s", field, value, page, source)
}

// DecodeDiscardMessage extracts the structured fields of a DISCARD message by
// fixed-marker slicing. Decoding is lenient: unmatched optional fields come
// back nil. document_source and page_number are required on the discard
// counterpart, so a text missing those anchors is reported as an error.
func DecodeDiscardMessage(text string) (*DecodedDiscardMessage, error) {
	source, ok := sliceBetween(text, markerDoc, markerDocEnd)
	if !ok {
		return nil, fmt.Errorf("discard message missing document_source anchors: %q", text)
	}
	pageText, ok := sliceBetween(text, markerPage, markerPageEnd)
	if !ok {
		return nil, fmt.Errorf("discard message missing page_number anchors: %q", text)
	}
	page, err := strconv.Atoi(strings.TrimSpace(pageText))
	if err != nil {
		return nil, fmt.Errorf("discard message has non-numeric page %q", pageText)
	}

	decoded := &DecodedDiscardMessage{
		DocumentSource: source,
		PageNumber:     page,
	}

	if errDetail, ok := sliceBetween(text, markerError, markerNumber); ok {
		decoded.ErrorDetail = strings.TrimSpace(errDetail)
	}
	if numText, ok := sliceBetween(text, markerNumber, markerGenre); ok && numText != nonePlaceholder {
		if n, err := strconv.Atoi(strings.TrimSpace(numText)); err == nil {
			decoded.DocumentNumber = &n
		}
	}
	if genre, ok := sliceBetween(text, markerGenre, markerDate); ok && genre != nonePlaceholder {
		g := genre
		decoded.DocumentGenre = &g
	}
	if dateText, ok := sliceBetween(text, markerDate, markerDateEnd); ok && dateText != nonePlaceholder {
		if d, err := time.Parse(dateLayout, strings.TrimSpace(dateText)); err == nil {
			decoded.DocumentDate = &d
		}
	}
	return decoded, nil
}

// DecodeGapMessage extracts document_number and document_year from a GAP
// message. document_year is everything following the year marker.
func DecodeGapMessage(text string) (*DecodedGapMessage, error) {
	numText, ok := sliceBetween(text, markerGapNumber, markerGapYear)
	if !ok {
		return nil, fmt.Errorf("gap message missing anchors: %q", text)
	}
	number, err := strconv.Atoi(strings.TrimSpace(numText))
	if err != nil {
		return nil, fmt.Errorf("gap message has non-numeric document_number %q", numText)
	}

	yearText := text[strings.Index(text, markerGapYear)+len(markerGapYear):]
	year, err := strconv.Atoi(strings.TrimSpace(yearText))
	if err != nil {
		return nil, fmt.Errorf("gap message has non-numeric document_year %q", yearText)
	}

	return &DecodedGapMessage{DocumentNumber: number, DocumentYear: year}, nil
}

// sliceBetween returns the substring delimited by the first occurrence of
// start and the first occurrence of end after it.
func sliceBetween(s, start, end string) (string, bool) {
	i := strings.Index(s, start)
	if i < 0 {
		return "", false
	}
	i += len(start)
	j := strings.Index(s[i:], end)
	if j < 0 {
		return "", false
	}
	return s[i : i+j], true
}
