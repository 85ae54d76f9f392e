package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type tile struct {
	label string
	value *float64
	unit  string
}

func renderReport(w io.Writer, report weather.Report) error {
	loc := report.Location
	fmt.Fprintf(w, "%s (%.4f, %.4f)\n\n", loc.Name, loc.Latitude, loc.Longitude)

	fmt.Fprintf(w, "Historical weather %s to %s\n",
		report.Range.Start.Format(weather.DateLayout), report.Range.End.Format(weather.DateLayout))
	if err := renderSection(w, report.Historical, func(s weather.SummaryStats) []tile {
		return []tile{
			{"Avg Temp", s.MeanAvgTempC, "°C"},
			{"Highest Temp", s.MaxTempC, "°C"},
			{"Total Rainfall", s.TotalRainfallMM, "mm"},
			{"Max Wind Speed", s.MaxWindKPH, "km/h"},
		}
	}); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nUpcoming forecast")
	return renderSection(w, report.Forecast, func(s weather.SummaryStats) []tile {
		return []tile{
			{"Forecast Avg Temp", s.MeanAvgTempC, "°C"},
			{"Forecast Total Rainfall", s.TotalRainfallMM, "mm"},
		}
	})
}

func renderSection(w io.Writer, sec weather.Section, tiles func(weather.SummaryStats) []tile) error {
	if sec.Err != nil {
		_, err := fmt.Fprintf(w, "  unavailable: %v\n", sec.Err)
		return err
	}

	if sec.Summary != nil {
		for _, t := range tiles(*sec.Summary) {
			fmt.Fprintf(w, "  %-24s %s\n", t.label, formatValue(t.value, t.unit))
		}
		fmt.Fprintln(w)
	}

	trend := sec.Series.Mode == weather.ModeHistorical
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := "Date\tMax Temp (°C)\tMin Temp (°C)\tRainfall (mm)\tMax Wind (km/h)\tAvg Temp (°C)\t"
	if trend {
		header += "Moving Avg (3 Days)\t"
	}
	fmt.Fprintln(tw, header)

	for _, r := range sec.Series.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t",
			r.Date.Format(weather.DateLayout),
			formatValue(r.MaxTempC, ""),
			formatValue(r.MinTempC, ""),
			formatValue(r.RainfallMM, ""),
			formatValue(r.MaxWindKPH, ""),
			formatValue(r.AvgTempC, ""),
		)
		if trend {
			fmt.Fprintf(tw, "%s\t", formatValue(r.MovingAvgC, ""))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func renderCandidates(w io.Writer, locs []weather.Location) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tCountry\tLatitude\tLongitude\tTimezone")
	for i, l := range locs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%.4f\t%s\n", i+1, l.Name, l.Country, l.Latitude, l.Longitude, l.Timezone)
	}
	return tw.Flush()
}

// formatValue rounds to one decimal place; absent values render as "-".
func formatValue(v *float64, unit string) string {
	if v == nil {
		return "-"
	}
	if unit == "" {
		return fmt.Sprintf("%.1f", *v)
	}
	return fmt.Sprintf("%.1f %s", *v, unit)
}
