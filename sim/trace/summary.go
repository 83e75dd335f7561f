package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalArrivals       int
	NoChargeCount       int
	SessionCount        int
	NoChargeShare       float64
	ArrivalsPerHour     [24]int
	ChargerDistribution map[int]int // charger ID → sessions started
	MeanDistanceKm      float64     // over sessions only
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ChargerDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalArrivals = len(st.Arrivals)
	totalDistance := 0.0
	for _, a := range st.Arrivals {
		if a.Hour >= 0 && a.Hour < len(summary.ArrivalsPerHour) {
			summary.ArrivalsPerHour[a.Hour]++
		}
		switch a.Outcome {
		case OutcomeNoCharge:
			summary.NoChargeCount++
		case OutcomeSession:
			summary.SessionCount++
			summary.ChargerDistribution[a.ChargerID]++
			totalDistance += a.DistanceKm
		}
	}

	if summary.TotalArrivals > 0 {
		summary.NoChargeShare = float64(summary.NoChargeCount) / float64(summary.TotalArrivals)
	}
	if summary.SessionCount > 0 {
		summary.MeanDistanceKm = totalDistance / float64(summary.SessionCount)
	}

	return summary
}
