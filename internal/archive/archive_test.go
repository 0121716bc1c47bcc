package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zperzan/scrape-wunderground/internal/wunderground"
)

func TestPageKey(t *testing.T) {
	t.Parallel()

	req := wunderground.Request{
		Station: "KCAJAMES3",
		Date:    time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC),
		Freq:    wunderground.Freq5Min,
	}
	require.Equal(t, "KCAJAMES3/5min/2021-07-01.html", PageKey(req))

	req.Freq = wunderground.FreqDaily
	require.Equal(t, "KCAJAMES3/daily/2021-07-01.html", PageKey(req))
}
