package wunderground

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRequestURLTimespanMapping(t *testing.T) {
	t.Parallel()

	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		freq Frequency
		want string
	}{
		{
			// The site calls the single-day 5-minute view "daily".
			name: "5min maps to daily",
			freq: Freq5Min,
			want: "https://www.wunderground.com/dashboard/pws/KAZPHOEN1/table/2024-03-15/2024-03-15/daily",
		},
		{
			name: "daily maps to monthly",
			freq: FreqDaily,
			want: "https://www.wunderground.com/dashboard/pws/KAZPHOEN1/table/2024-03-15/2024-03-15/monthly",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := Request{Station: "KAZPHOEN1", Date: date, Freq: tc.freq}
			require.Equal(t, tc.want, req.URL("https://www.wunderground.com"))
		})
	}
}

func TestRequestURLTrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	req := Request{
		Station: "KCASANFR5",
		Date:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Freq:    Freq5Min,
	}
	require.Equal(t,
		"https://example.test/dashboard/pws/KCASANFR5/table/2024-01-02/2024-01-02/daily",
		req.URL("https://example.test/"))
}

func TestParseFrequency(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Frequency
		wantErr bool
	}{
		{in: "5min", want: Freq5Min},
		{in: "daily", want: FreqDaily},
		{in: " Daily ", want: FreqDaily},
		{in: "5MIN", want: Freq5Min},
		{in: "hourly", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFrequency(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFrequencyColumns(t *testing.T) {
	t.Parallel()

	require.Len(t, Freq5Min.Columns(), 8)
	require.Len(t, FreqDaily.Columns(), 15)
	require.Equal(t, 8, Freq5Min.ColumnCount())
	require.Equal(t, 15, FreqDaily.ColumnCount())
	require.Nil(t, Frequency("hourly").Columns())

	// Columns hands out copies; mutating one must not leak back.
	cols := Freq5Min.Columns()
	cols[0] = "mutated"
	require.Equal(t, "Temperature", Freq5Min.Columns()[0])
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := ParseDate(" 2023-12-31 ")
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("12/31/2023")
	require.Error(t, err)
}
