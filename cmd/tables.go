package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/voltiq/evsim/sim"
)

// tablesCmd prints the arrival and demand tables driving the simulation
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the arrival and charging demand probability tables",
	Run: func(cmd *cobra.Command, args []string) {
		printTables(cmd.OutOrStdout())
	},
}

func printTables(w io.Writer) {
	fmt.Fprintln(w, "=== Arrival probability per charger and hour ===")
	for h, p := range sim.ArrivalProbabilities {
		fmt.Fprintf(w, "%02d:00  %6.2f %%  (per tick %.4f %%)\n", h, p*100, sim.ArrivalProbabilityPerTick(h, 1)*100)
	}
	fmt.Fprintln(w, "\n=== Charging demand per arrival ===")
	for _, d := range sim.ChargingDemands {
		label := fmt.Sprintf("%.0f km", d.Value)
		if d.Value == 0 {
			label = "none"
		}
		fmt.Fprintf(w, "%8s  %6.2f %%\n", label, d.Probability*100)
	}
}
