package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/voltiq/evsim/sim"
)

// errReported signals that the failure was already printed to the user.
var errReported = errors.New("reported")

// configKeys maps accepted key=value names to their setters. Both the json and
// yaml spellings of each Config field are accepted.
var configKeys = map[string]func(cfg *sim.Config, value string) *sim.ValidationError{
	"numChargers":                  setNumChargers,
	"num_chargers":                 setNumChargers,
	"chargerPowerKW":               setChargerPower,
	"charger_power_kw":             setChargerPower,
	"carEfficiencyKWhPer100Km":     setCarEfficiency,
	"car_efficiency_kwh_per_100km": setCarEfficiency,
	"arrivalMultiplier":            setArrivalMultiplier,
	"arrival_multiplier":           setArrivalMultiplier,
	"seed":                         setSeed,
}

var (
	setChargerPower      = floatSetter("chargerPowerKW", func(c *sim.Config, v float64) { c.ChargerPowerKW = v })
	setCarEfficiency     = floatSetter("carEfficiencyKWhPer100Km", func(c *sim.Config, v float64) { c.CarEfficiencyKWhPer100Km = v })
	setArrivalMultiplier = floatSetter("arrivalMultiplier", func(c *sim.Config, v float64) { c.ArrivalMultiplier = v })
)

func setSeed(cfg *sim.Config, value string) *sim.ValidationError {
	cfg.Seed = value
	return nil
}

func setNumChargers(cfg *sim.Config, value string) *sim.ValidationError {
	n, err := strconv.Atoi(value)
	if err != nil {
		return &sim.ValidationError{Field: "numChargers", Message: "must be an integer", Value: value}
	}
	cfg.NumChargers = n
	return nil
}

func floatSetter(field string, set func(*sim.Config, float64)) func(*sim.Config, string) *sim.ValidationError {
	return func(cfg *sim.Config, value string) *sim.ValidationError {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return &sim.ValidationError{Field: field, Message: "must be a number", Value: value}
		}
		set(cfg, f)
		return nil
	}
}

// applyOverrides applies key=value arguments to cfg. Parse failures and unknown
// keys are collected rather than aborting on the first one.
func applyOverrides(cfg *sim.Config, args []string) []sim.ValidationError {
	var errs []sim.ValidationError
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			errs = append(errs, sim.ValidationError{Field: arg, Message: "expected key=value", Value: arg})
			continue
		}
		set, known := configKeys[key]
		if !known {
			errs = append(errs, sim.ValidationError{Field: key, Message: "unknown configuration key", Value: value})
			continue
		}
		if ve := set(cfg, value); ve != nil {
			errs = append(errs, *ve)
		}
	}
	return errs
}

// resolveConfig builds the run configuration: defaults, then the optional
// preset, then key=value overrides. Every problem found is printed to w and
// errReported is returned.
func resolveConfig(w io.Writer, preset string, args []string) (sim.Config, error) {
	cfg := sim.DefaultConfig()
	if preset != "" {
		pf, err := sim.LoadPresets(presetsPath)
		if err != nil {
			return cfg, err
		}
		if cfg, err = pf.Lookup(preset); err != nil {
			return cfg, err
		}
	}

	errs := applyOverrides(&cfg, args)
	// Fields that failed to parse are not validated again.
	failed := make(map[string]bool, len(errs))
	for _, e := range errs {
		failed[e.Field] = true
	}
	for _, e := range sim.Validate(cfg) {
		if !failed[e.Field] {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		printValidationErrors(w, errs)
		return cfg, errReported
	}
	return cfg, nil
}

func printValidationErrors(w io.Writer, errs []sim.ValidationError) {
	fmt.Fprintln(w, "Invalid configuration:")
	for _, e := range errs {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}
