package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltiq/evsim/sim"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	presetName, outputFormat, traceLevel = "", "text", "none"
	sweepFrom, sweepTo, sweepStep = 5, 25, 5
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--presets", filepath.Join("..", "presets.yaml")))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRun_TextSummary(t *testing.T) {
	out, _, err := execute(t, "run", "numChargers=3", "seed=cli")
	require.NoError(t, err)

	assert.Contains(t, out, "=== Simulation Summary ===")
	assert.Contains(t, out, "Seed                   : cli")
	assert.Contains(t, out, "Theoretical max power  : 33.00 kW")
	assert.Contains(t, out, "=== Exemplary Day ===")
	assert.NotContains(t, out, "=== Arrival Trace ===")
}

func TestRun_InvalidConfigExitsWithAllErrors(t *testing.T) {
	// GIVEN three invalid fields
	_, errOut, err := execute(t, "run", "numChargers=0", "chargerPowerKW=2", "arrivalMultiplier=9")

	// THEN every violation is printed and the command fails
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "numChargers: must be at least 1")
	assert.Contains(t, errOut, "chargerPowerKW: must be at least 3.7 kW")
	assert.Contains(t, errOut, "arrivalMultiplier: must be at most 2")
}

func TestRun_JSONIsDeterministic(t *testing.T) {
	decodeRun := func() sim.Result {
		out, _, err := execute(t, "run", "--format", "json", "numChargers=2", "seed=json")
		require.NoError(t, err)
		var r sim.Result
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		return r
	}

	first, second := decodeRun(), decodeRun()
	require.Len(t, first.PowerDemandPerTick, sim.TicksPerYear)
	assert.Equal(t, first.PowerDemandPerTick, second.PowerDemandPerTick)
	assert.Equal(t, first.TotalEnergyKWh, second.TotalEnergyKWh)
}

func TestRun_YAMLOmitsSeries(t *testing.T) {
	out, _, err := execute(t, "run", "--format", "yaml", "numChargers=2", "seed=yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "concurrency_factor:")
	assert.Contains(t, out, "seed_used: yaml")
	assert.NotContains(t, out, "power_demand_per_tick")
}

func TestRun_Preset(t *testing.T) {
	out, _, err := execute(t, "run", "--preset", "fast-hub", "seed=p")
	require.NoError(t, err)
	assert.Contains(t, out, "Theoretical max power  : 900.00 kW")
}

func TestRun_Trace(t *testing.T) {
	out, _, err := execute(t, "run", "--trace", "arrivals", "numChargers=2", "seed=t")
	require.NoError(t, err)
	assert.Contains(t, out, "=== Arrival Trace ===")
}

func TestRun_BadFlags(t *testing.T) {
	_, _, err := execute(t, "run", "--format", "xml", "numChargers=2", "seed=x")
	assert.ErrorContains(t, err, "unknown output format")

	_, _, err = execute(t, "run", "--trace", "everything")
	assert.ErrorContains(t, err, "invalid trace level")
}

func TestTables(t *testing.T) {
	out, _, err := execute(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "19:00")
	assert.Contains(t, out, "none")
	assert.Contains(t, out, "200 km")
}
