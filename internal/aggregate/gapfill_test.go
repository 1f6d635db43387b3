package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/period"
)

func mustDay(s string) time.Time {
	t, err := time.Parse(period.DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFill(t *testing.T) {
	w := period.Window{Start: mustDay("2025-01-01"), End: mustDay("2025-01-03")}

	got := Fill(map[string]float64{"2025-01-02": 5}, w)

	require.Equal(t, []model.TimeSeriesPoint{
		{Day: "2025-01-01", Value: 0},
		{Day: "2025-01-02", Value: 5},
		{Day: "2025-01-03", Value: 0},
	}, got)
}

func TestFill_DenseAndAscending(t *testing.T) {
	w := period.Window{Start: mustDay("2025-02-20"), End: mustDay("2025-03-05")}

	got := Fill(map[string]float64{"2025-02-28": 3, "2025-03-01": 7}, w)

	require.Len(t, got, w.Days())
	for i := 1; i < len(got); i++ {
		require.Less(t, got[i-1].Day, got[i].Day)
	}
	require.Equal(t, "2025-02-20", got[0].Day)
	require.Equal(t, "2025-03-05", got[len(got)-1].Day)
}

func TestFill_InvertedWindow(t *testing.T) {
	w := period.Window{Start: mustDay("2025-01-10"), End: mustDay("2025-01-01")}

	require.Empty(t, Fill(map[string]float64{"2025-01-05": 9}, w))
}

func TestFill_SingleDay(t *testing.T) {
	w := period.Window{Start: mustDay("2025-01-01"), End: mustDay("2025-01-01")}

	got := Fill(nil, w)

	require.Equal(t, []model.TimeSeriesPoint{{Day: "2025-01-01", Value: 0}}, got)
}
