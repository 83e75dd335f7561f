package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/voltiq/evsim/sim"
	"github.com/voltiq/evsim/sim/trace"
)

var (
	presetName   string // Preset applied before key=value overrides
	outputFormat string // text, json or yaml
	traceLevel   string // Arrival trace verbosity
)

// runCmd executes one simulated year using defaults, preset and key=value overrides
var runCmd = &cobra.Command{
	Use:   "run [key=value ...]",
	Short: "Simulate one year of station operation",
	Long: `Simulate one year of station operation at 15-minute resolution.

Configuration keys: numChargers, chargerPowerKW, carEfficiencyKWhPer100Km,
arrivalMultiplier, seed (snake_case spellings are accepted too).`,
	Example: "  evsim run numChargers=10 chargerPowerKW=22 seed=42",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.ErrOrStderr(), presetName, args)
		if err != nil {
			return err
		}
		if !trace.IsValidTraceLevel(traceLevel) {
			return fmt.Errorf("invalid trace level %q (valid: none, arrivals)", traceLevel)
		}

		engine, err := sim.NewEngine(cfg)
		if err != nil {
			return err
		}
		if tc := (trace.TraceConfig{Level: trace.TraceLevel(traceLevel)}); tc.Enabled() {
			engine.Trace = trace.NewSimulationTrace(tc)
		}

		logrus.Infof("Running simulation with configuration %+v", cfg)
		result := engine.Run()

		var summary *trace.TraceSummary
		if engine.Trace != nil {
			summary = trace.Summarize(engine.Trace)
		}
		return writeResult(cmd.OutOrStdout(), outputFormat, result, summary)
	},
}

// writeResult renders result in the requested format. The per-tick series and
// session list are only part of the json output.
func writeResult(w io.Writer, format string, result *sim.Result, summary *trace.TraceSummary) error {
	switch format {
	case "text":
		printReport(w, result, summary)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(result)
	default:
		return fmt.Errorf("unknown output format %q (valid: text, json, yaml)", format)
	}
}

func init() {
	runCmd.Flags().StringVar(&presetName, "preset", "", "Named preset from the presets file")
	runCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json, yaml)")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Arrival trace level (none, arrivals)")
}
