package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/voltiq/evsim/sim"
	"github.com/voltiq/evsim/sim/trace"
)

// printReport writes the human readable summary of a run.
func printReport(w io.Writer, r *sim.Result, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Computation time       : %.2f ms\n", r.Metadata.ComputationTimeMs)
	fmt.Fprintf(w, "Seed                   : %s\n", r.Metadata.SeedUsed)
	fmt.Fprintf(w, "Total energy delivered : %.2f kWh\n", r.TotalEnergyKWh)
	fmt.Fprintf(w, "Theoretical max power  : %.2f kW\n", r.TheoreticalMaxPowerKW)
	fmt.Fprintf(w, "Actual max power       : %.2f kW\n", r.ActualMaxPowerKW)
	fmt.Fprintf(w, "Concurrency factor     : %.2f %%\n", r.ConcurrencyFactor*100)
	fmt.Fprintf(w, "P95 power              : %.2f kW\n", r.P95PowerKW)
	fmt.Fprintf(w, "Average power          : %.2f kW\n", r.Metadata.AveragePowerKW)

	fmt.Fprintln(w, "\n=== Sessions ===")
	fmt.Fprintf(w, "Sessions created       : %d\n", r.Sessions.Count)
	fmt.Fprintf(w, "Per day / week / month : %.2f / %.2f / %.2f\n",
		r.ChargingEvents.PerDay, r.ChargingEvents.PerWeek, r.ChargingEvents.PerMonth)
	if r.Sessions.Count > 0 {
		fmt.Fprintf(w, "Average duration       : %.1f ticks (%.1f hours)\n",
			r.Sessions.AverageDurationTicks, r.Sessions.AverageDurationHours)
		fmt.Fprintf(w, "Average energy         : %.1f kWh\n", r.Sessions.AverageEnergyKWh)
	}

	fmt.Fprintln(w, "\n=== Exemplary Day ===")
	for _, h := range r.ExemplaryDay {
		fmt.Fprintf(w, "%02d:00  avg %8.2f kW  peak %8.2f kW  %s\n",
			h.Hour, h.AveragePowerKW, h.PeakPowerKW, bar(h.AveragePowerKW, r.TheoreticalMaxPowerKW, 30))
	}

	if summary != nil {
		fmt.Fprintln(w, "\n=== Arrival Trace ===")
		fmt.Fprintf(w, "Arrivals               : %d\n", summary.TotalArrivals)
		fmt.Fprintf(w, "No-charge arrivals     : %d (%.2f %%)\n", summary.NoChargeCount, summary.NoChargeShare*100)
		fmt.Fprintf(w, "Mean distance          : %.1f km\n", summary.MeanDistanceKm)
	}
}

// bar renders value as a share of full using width cells.
func bar(value, full float64, width int) string {
	if full <= 0 || value <= 0 {
		return ""
	}
	n := int(value / full * float64(width))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", min(n, width))
}
