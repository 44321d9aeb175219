package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"salat-server/models/prayer"
	"salat-server/prayertime"
)

// PlotPrayerDay renders a bar chart of the day's prayer times as minutes since
// midnight, one bar per primary prayer.
func PlotPrayerDay(w io.Writer, date, locationName string, table prayer.PrayerTable) error {
	primary := table.Primary()
	names := make([]string, 0, len(primary))
	bars := make([]opts.BarData, 0, len(primary))
	for _, p := range primary {
		m, err := prayertime.TimeToMinutes(p.Time)
		if err != nil {
			return fmt.Errorf("cannot plot %s: %w", p.Name, err)
		}
		names = append(names, fmt.Sprintf("%s %s", p.Name, p.Time))
		bars = append(bars, opts.BarData{Name: p.Name, Value: m})
	}

	title := "Prayer times " + date
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "800px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: locationName,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "minutes since midnight",
			Min:  0,
			Max:  prayertime.MINUTES_PER_DAY,
		}),
	)
	bar.SetXAxis(names).AddSeries("Prayer", bars,
		charts.WithLabelOpts(opts.Label{
			Show:     opts.Bool(true),
			Position: "top",
		}),
	)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
