package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func datePtr(v string) *time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestFormatDiscardMessage(t *testing.T) {
	t.Run("AllFieldsKnown", func(t *testing.T) {
		got := FormatDiscardMessage(3, "SRC1", "BAD FORMAT", intPtr(17), strPtr("TD"), datePtr("2024-01-05"))
		assert.Equal(t, "Page 3 of doc SRC1 discarded for error on BAD FORMAT [number: 17, genre: TD, date: 2024-01-05]", got)
	})

	t.Run("NilOptionalsRenderAsNone", func(t *testing.T) {
		got := FormatDiscardMessage(3, "SRC1", "BAD FORMAT", nil, nil, nil)
		assert.Equal(t, "Page 3 of doc SRC1 discarded for error on BAD FORMAT [number: None, genre: None, date: None]", got)
	})
}

func TestDecodeDiscardMessage(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		text := FormatDiscardMessage(3, "SRC1", "BAD FORMAT", intPtr(17), strPtr("TD"), datePtr("2024-01-05"))

		decoded, err := DecodeDiscardMessage(text)
		require.NoError(t, err)
		require.NotNil(t, decoded.DocumentNumber)
		assert.Equal(t, 17, *decoded.DocumentNumber)
		require.NotNil(t, decoded.DocumentGenre)
		assert.Equal(t, "TD", *decoded.DocumentGenre)
		require.NotNil(t, decoded.DocumentDate)
		assert.Equal(t, *datePtr("2024-01-05"), *decoded.DocumentDate)
		assert.Equal(t, "BAD FORMAT", decoded.ErrorDetail)
		assert.Equal(t, "SRC1", decoded.DocumentSource)
		assert.Equal(t, 3, decoded.PageNumber)
	})

	t.Run("NonePlaceholdersDecodeAsNil", func(t *testing.T) {
		text := "Page 3 of doc SRC1 discarded for error on BAD FORMAT [number: None, genre: TD, date: 2024-01-05]"

		decoded, err := DecodeDiscardMessage(text)
		require.NoError(t, err)
		assert.Nil(t, decoded.DocumentNumber)
		require.NotNil(t, decoded.DocumentGenre)
		assert.Equal(t, "TD", *decoded.DocumentGenre)
		require.NotNil(t, decoded.DocumentDate)
		assert.Equal(t, *datePtr("2024-01-05"), *decoded.DocumentDate)
		assert.Equal(t, "SRC1", decoded.DocumentSource)
		assert.Equal(t, 3, decoded.PageNumber)
	})

	t.Run("AllOptionalsNone", func(t *testing.T) {
		text := "Page 12 of doc batch_7.pdf discarded for error on UNREADABLE [number: None, genre: None, date: None]"

		decoded, err := DecodeDiscardMessage(text)
		require.NoError(t, err)
		assert.Nil(t, decoded.DocumentNumber)
		assert.Nil(t, decoded.DocumentGenre)
		assert.Nil(t, decoded.DocumentDate)
		assert.Equal(t, "batch_7.pdf", decoded.DocumentSource)
		assert.Equal(t, 12, decoded.PageNumber)
	})

	t.Run("SegmentsInAnyOrder", func(t *testing.T) {
		// Decoding anchors on markers, not on segment positions.
		text := "... for error on BAD FORMAT [number: None, genre: TD, date: 2024-01-05] ... of doc SRC1 discarded ... Page 3 of doc SRC1"

		decoded, err := DecodeDiscardMessage(text)
		require.NoError(t, err)
		assert.Nil(t, decoded.DocumentNumber)
		require.NotNil(t, decoded.DocumentGenre)
		assert.Equal(t, "TD", *decoded.DocumentGenre)
		require.NotNil(t, decoded.DocumentDate)
		assert.Equal(t, *datePtr("2024-01-05"), *decoded.DocumentDate)
		assert.Equal(t, "SRC1", decoded.DocumentSource)
		assert.Equal(t, 3, decoded.PageNumber)
	})

	t.Run("UnparseableDateDecodesAsNil", func(t *testing.T) {
		text := "Page 3 of doc SRC1 discarded for error on BAD FORMAT [number: 17, genre: TD, date: 05.01.2024]"

		decoded, err := DecodeDiscardMessage(text)
		require.NoError(t, err)
		assert.Nil(t, decoded.DocumentDate)
		require.NotNil(t, decoded.DocumentNumber)
		assert.Equal(t, 17, *decoded.DocumentNumber)
	})

	t.Run("MissingSourceAnchorsFails", func(t *testing.T) {
		_, err := DecodeDiscardMessage("free-form text with no markers at all")
		require.Error(t, err)
	})

	t.Run("MissingPageAnchorsFails", func(t *testing.T) {
		_, err := DecodeDiscardMessage("of doc SRC1 discarded for error on X [number: 1, genre: A, date: None]")
		require.Error(t, err)
	})
}

func TestGapMessageRoundTrip(t *testing.T) {
	text := FormatGapMessage(42, 2023)
	assert.Equal(t, "Found gap for doc number 42 of year 2023", text)

	decoded, err := DecodeGapMessage(text)
	require.NoError(t, err)
	assert.Equal(t, 42, decoded.DocumentNumber)
	assert.Equal(t, 2023, decoded.DocumentYear)
}

func TestDecodeGapMessage_BadInput(t *testing.T) {
	cases := []string{
		"Found gap for doc number  of year 2023",
		"Found gap for doc number 42 of year twenty-three",
		"no anchors here",
	}
	for _, text := range cases {
		_, err := DecodeGapMessage(text)
		assert.Error(t, err, "input %q", text)
	}
}

func TestFormatSimilarityMessage(t *testing.T) {
	got := FormatSimilarityMessage("vehicle", "TRUCK-99", 4, "SRC2")
	assert.Equal(t, "Had similarity crash for vehicle TRUCK-99 on page 4 of doc SRC2", got)
}
