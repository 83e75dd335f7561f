// Package sim provides the time-stepped charging station simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - time.go: tick granularity (15 minutes) and the one-year horizon
//   - tables.go: hourly arrival probabilities and the charging demand distribution
//   - charger.go: charger state (Idle/Occupied), sessions and per-tick energy metering
//   - engine.go: the tick loop with its release, arrival and recording phases
//   - result.go: aggregation of the per-tick series into summary metrics
//   - presets.go: named station configurations loaded from presets.yaml
//
// # Determinism
//
// All randomness flows through a single RandomSource seeded from Config.Seed.
// Arrival trials are drawn per idle charger in charger-index order, and each
// successful trial is followed by exactly one demand sample. Identical seeds and
// configurations therefore produce identical results. An empty seed is replaced by
// a wall-clock seed which is reported in Metadata.SeedUsed.
//
// # Errors
//
// Validate reports every out-of-bounds field at once. NewEngine wraps a non-empty
// list in a *ConfigError; once constructed, Run cannot fail.
//
// Arrival decisions can be recorded with the sim/trace sub-package by assigning
// Engine.Trace before calling Run.
package sim
