package wunderground

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fiveMinValues(rows int) []string {
	out := make([]string, 0, rows*8)
	for i := 0; i < rows; i++ {
		for j := 0; j < 8; j++ {
			out = append(out, fmt.Sprintf("%d.%d", 70+i, j))
		}
	}
	return out
}

func TestNormalizeFiveMin(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	timestamps := []string{"12:00 AM", "12:05 AM", "11:55 PM"}

	table, err := Normalize(timestamps, fiveMinValues(3), date, Freq5Min)
	require.NoError(t, err)
	require.Equal(t, Freq5Min.Columns(), table.Columns)
	require.Equal(t, 3, table.Len())

	// Time-of-day strings pick up the request date.
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), table.Index[0])
	require.Equal(t, time.Date(2024, 3, 15, 0, 5, 0, 0, time.UTC), table.Index[1])
	require.Equal(t, time.Date(2024, 3, 15, 23, 55, 0, 0, time.UTC), table.Index[2])

	require.Equal(t, 70.0, *table.Cells[0][0])
	require.Equal(t, 72.7, *table.Cells[2][7])
}

func TestNormalizeDaily(t *testing.T) {
	t.Parallel()

	values := make([]string, 15)
	for i := range values {
		values[i] = fmt.Sprintf("%d", i)
	}
	table, err := Normalize([]string{"3/15/2024"}, values, time.Time{}, FreqDaily)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), table.Index[0])
	require.Equal(t, 14.0, *table.Cells[0][14])
}

func TestNormalizeMissingToken(t *testing.T) {
	t.Parallel()

	values := fiveMinValues(1)
	values[3] = MissingToken
	values[7] = MissingToken

	table, err := Normalize([]string{"12:00 AM"}, values, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Freq5Min)
	require.NoError(t, err)
	require.Nil(t, table.Cells[0][3])
	require.Nil(t, table.Cells[0][7])
	require.NotNil(t, table.Cells[0][0])
}

func TestNormalizeShapeMismatch(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		timestamps []string
		values     []string
	}{
		{
			name:       "value count not divisible by width",
			timestamps: []string{"12:00 AM"},
			values:     fiveMinValues(1)[:5],
		},
		{
			name:       "rows exceed timestamps",
			timestamps: []string{"12:00 AM"},
			values:     fiveMinValues(2),
		},
		{
			name:       "timestamps exceed rows",
			timestamps: []string{"12:00 AM", "12:05 AM"},
			values:     fiveMinValues(1),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Normalize(tc.timestamps, tc.values, date, Freq5Min)
			var shapeErr *ShapeError
			require.ErrorAs(t, err, &shapeErr)
		})
	}
}

func TestNormalizeBadToken(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	values := fiveMinValues(1)
	values[2] = "n/a"
	_, err := Normalize([]string{"12:00 AM"}, values, date, Freq5Min)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "n/a", parseErr.Token)

	_, err = Normalize([]string{"midnightish"}, fiveMinValues(1), date, Freq5Min)
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "midnightish", parseErr.Token)
}

func TestNormalizeEmptyFragments(t *testing.T) {
	t.Parallel()

	table, err := Normalize(nil, nil, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), Freq5Min)
	require.NoError(t, err)
	require.True(t, table.Empty())
	require.Equal(t, Freq5Min.Columns(), table.Columns)
}
