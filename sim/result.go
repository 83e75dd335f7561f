package sim

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Presentation precision of result values.
const (
	powerDecimals = 2
	ratioDecimals = 4
)

// Result is the outcome of one simulated year.
// Power and energy are rounded to 2 decimals, ratios to 4; rounding happens
// once, after aggregation.
type Result struct {
	TotalEnergyKWh        float64        `json:"totalEnergyKWh" yaml:"total_energy_kwh"`
	TheoreticalMaxPowerKW float64        `json:"theoreticalMaxPowerKW" yaml:"theoretical_max_power_kw"`
	ActualMaxPowerKW      float64        `json:"actualMaxPowerKW" yaml:"actual_max_power_kw"`
	ConcurrencyFactor     float64        `json:"concurrencyFactor" yaml:"concurrency_factor"`
	P95PowerKW            float64        `json:"p95PowerKW" yaml:"p95_power_kw"`
	ChargingEvents        ChargingEvents `json:"chargingEvents" yaml:"charging_events"`
	Sessions              SessionStats   `json:"sessionStats" yaml:"session_stats"`
	ExemplaryDay          []HourProfile  `json:"exemplaryDay" yaml:"exemplary_day"`
	PowerDemandPerTick    []float64      `json:"powerDemandPerTick,omitempty" yaml:"-"`
	ChargingSessions      []Session      `json:"chargingSessions,omitempty" yaml:"-"`
	Metadata              Metadata       `json:"metadata" yaml:"metadata"`
}

// Metadata describes how a Result was produced.
type Metadata struct {
	RunID              string        `json:"runId" yaml:"run_id"`
	ComputationTime    time.Duration `json:"-" yaml:"-"`
	ComputationTimeMs  float64       `json:"computationTimeMs" yaml:"computation_time_ms"`
	Timestamp          string        `json:"timestamp" yaml:"timestamp"`
	ConfigHash         string        `json:"configHash" yaml:"config_hash"`
	SeedUsed           string        `json:"seedUsed" yaml:"seed_used"`
	AveragePowerKW     float64       `json:"averagePowerKW" yaml:"average_power_kw"`
	AverageConcurrency float64       `json:"averageConcurrency" yaml:"average_concurrency"`
}

// ChargingEvents is the session count expressed per calendar period.
type ChargingEvents struct {
	PerYear  int     `json:"perYear" yaml:"per_year"`
	PerMonth float64 `json:"perMonth" yaml:"per_month"`
	PerWeek  float64 `json:"perWeek" yaml:"per_week"`
	PerDay   float64 `json:"perDay" yaml:"per_day"`
}

// SessionStats summarizes the session list.
// EnergyDeviationKWh is requested minus metered energy: sessions still charging at
// the end of the year and the fractional last tick make it slightly positive.
type SessionStats struct {
	Count                int     `json:"count" yaml:"count"`
	AverageDurationTicks float64 `json:"averageDurationTicks" yaml:"average_duration_ticks"`
	AverageDurationHours float64 `json:"averageDurationHours" yaml:"average_duration_hours"`
	AverageEnergyKWh     float64 `json:"averageEnergyKWh" yaml:"average_energy_kwh"`
	RequestedEnergyKWh   float64 `json:"requestedEnergyKWh" yaml:"requested_energy_kwh"`
	EnergyDeviationKWh   float64 `json:"energyDeviationKWh" yaml:"energy_deviation_kwh"`
}

// HourProfile is the average and peak power for one hour of day across the year.
type HourProfile struct {
	Hour           int     `json:"hour" yaml:"hour"`
	AveragePowerKW float64 `json:"averagePowerKW" yaml:"average_power_kw"`
	PeakPowerKW    float64 `json:"peakPowerKW" yaml:"peak_power_kw"`
}

// buildResult aggregates the finished series and sessions.
func buildResult(cfg Config, seed string, powerDemand, energyConsumed []float64, sessions []Session, elapsed time.Duration) *Result {
	totalEnergy := floats.Sum(energyConsumed)
	theoreticalMax := cfg.TheoreticalMaxPowerKW()
	actualMax := floats.Max(powerDemand)
	averagePower := stat.Mean(powerDemand, nil)

	return &Result{
		TotalEnergyKWh:        Round(totalEnergy, powerDecimals),
		TheoreticalMaxPowerKW: Round(theoreticalMax, powerDecimals),
		ActualMaxPowerKW:      Round(actualMax, powerDecimals),
		ConcurrencyFactor:     Round(actualMax/theoreticalMax, ratioDecimals),
		P95PowerKW:            Round(percentile(powerDemand, 0.95), powerDecimals),
		ChargingEvents:        chargingEvents(len(sessions)),
		Sessions:              sessionStats(sessions, totalEnergy),
		ExemplaryDay:          exemplaryDay(powerDemand),
		PowerDemandPerTick:    powerDemand,
		ChargingSessions:      sessions,
		Metadata: Metadata{
			RunID:              uuid.NewString(),
			ComputationTime:    elapsed,
			ComputationTimeMs:  Round(float64(elapsed.Microseconds())/1000, powerDecimals),
			Timestamp:          time.Now().UTC().Format(time.RFC3339Nano),
			ConfigHash:         Fingerprint(cfg),
			SeedUsed:           seed,
			AveragePowerKW:     Round(averagePower, powerDecimals),
			AverageConcurrency: Round(averagePower/theoreticalMax, ratioDecimals),
		},
	}
}

func chargingEvents(count int) ChargingEvents {
	perDay := float64(count) / DaysPerYear
	return ChargingEvents{
		PerYear:  count,
		PerMonth: Round(perDay*30, powerDecimals),
		PerWeek:  Round(perDay*7, powerDecimals),
		PerDay:   Round(perDay, powerDecimals),
	}
}

func sessionStats(sessions []Session, meteredEnergy float64) SessionStats {
	stats := SessionStats{Count: len(sessions)}
	if len(sessions) == 0 {
		stats.EnergyDeviationKWh = Round(-meteredEnergy, powerDecimals)
		return stats
	}
	durations := make([]float64, len(sessions))
	energies := make([]float64, len(sessions))
	for i, s := range sessions {
		durations[i] = float64(s.DurationTicks())
		energies[i] = s.EnergyNeededKWh
	}
	avgTicks := stat.Mean(durations, nil)
	requested := floats.Sum(energies)

	stats.AverageDurationTicks = Round(avgTicks, powerDecimals)
	stats.AverageDurationHours = Round(TicksToHours(avgTicks), powerDecimals)
	stats.AverageEnergyKWh = Round(stat.Mean(energies, nil), powerDecimals)
	stats.RequestedEnergyKWh = Round(requested, powerDecimals)
	stats.EnergyDeviationKWh = Round(requested-meteredEnergy, powerDecimals)
	return stats
}

// exemplaryDay folds the year into a 24-hour profile.
func exemplaryDay(powerDemand []float64) []HourProfile {
	sums := make([]float64, HoursPerDay)
	counts := make([]int, HoursPerDay)
	peaks := make([]float64, HoursPerDay)
	for tick, p := range powerDemand {
		h := TickToHour(tick)
		sums[h] += p
		counts[h]++
		peaks[h] = math.Max(peaks[h], p)
	}
	profile := make([]HourProfile, HoursPerDay)
	for h := range profile {
		avg := 0.0
		if counts[h] > 0 {
			avg = sums[h] / float64(counts[h])
		}
		profile[h] = HourProfile{
			Hour:           h,
			AveragePowerKW: Round(avg, powerDecimals),
			PeakPowerKW:    Round(peaks[h], powerDecimals),
		}
	}
	return profile
}

// percentile returns the empirical p-quantile of data without modifying it.
func percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Round rounds value to the given number of decimals, halves away from zero.
func Round(value float64, decimals int) float64 {
	m := math.Pow(10, float64(decimals))
	return math.Round(value*m) / m
}
