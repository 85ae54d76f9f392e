package weather

// trendWindow is the number of consecutive records averaged by the moving trend.
const trendWindow = 3

// Enrich computes the derived columns for records, keeping their order.
// The moving average is index based: a gap in the calendar is not filled, so
// the window simply spans whatever three records are adjacent in the slice.
func Enrich(records []DailyRecord, withTrend bool) []EnrichedRecord {
	out := make([]EnrichedRecord, len(records))
	for i, r := range records {
		out[i] = EnrichedRecord{DailyRecord: r}
		if r.MaxTempC != nil && r.MinTempC != nil {
			avg := (*r.MaxTempC + *r.MinTempC) / 2
			out[i].AvgTempC = &avg
		}
	}

	if !withTrend {
		return out
	}

	for i := trendWindow - 1; i < len(out); i++ {
		var sum float64
		complete := true
		for j := i - trendWindow + 1; j <= i; j++ {
			if out[j].AvgTempC == nil {
				complete = false
				break
			}
			sum += *out[j].AvgTempC
		}
		if complete {
			ma := sum / trendWindow
			out[i].MovingAvgC = &ma
		}
	}
	return out
}

// Summarize reduces a series to its dashboard tiles.
// Absent values are skipped, never counted as zero.
func Summarize(records []EnrichedRecord) (SummaryStats, error) {
	if len(records) == 0 {
		return SummaryStats{}, ErrEmptySeries
	}

	var (
		sumAvg  float64
		nAvg    int
		maxTemp *float64
		sumRain float64
		maxWind *float64
	)
	stats := SummaryStats{Days: len(records)}

	for _, r := range records {
		if r.AvgTempC != nil {
			sumAvg += *r.AvgTempC
			nAvg++
		}
		if r.RainfallMM != nil {
			sumRain += *r.RainfallMM
		}
		maxTemp = maxOf(maxTemp, r.MaxTempC)
		maxWind = maxOf(maxWind, r.MaxWindKPH)
	}

	if nAvg > 0 {
		mean := sumAvg / float64(nAvg)
		stats.MeanAvgTempC = &mean
	}
	// A sum over no values is 0, unlike the mean and maxima.
	stats.TotalRainfallMM = &sumRain
	stats.MaxTempC = maxTemp
	stats.MaxWindKPH = maxWind
	return stats, nil
}

func maxOf(cur, v *float64) *float64 {
	if v == nil {
		return cur
	}
	if cur == nil || *v > *cur {
		m := *v
		return &m
	}
	return cur
}
