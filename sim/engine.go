package sim

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voltiq/evsim/sim/trace"
)

// Engine is the time-stepped occupancy model of one charging station.
// It owns the charger states, the session list and the per-tick series.
//
// An Engine is exclusively owned by its caller; Run must not be invoked
// concurrently on the same instance.
type Engine struct {
	// Trace records arrival decisions when non-nil and enabled.
	Trace *trace.SimulationTrace

	cfg            Config
	rng            *RandomSource
	seed           string
	chargers       []ChargerState
	sessions       []Session
	powerDemand    []float64
	energyConsumed []float64
	ran            bool
}

// NewEngine validates cfg and allocates an idle station. A *ConfigError listing
// every violation is the only failure mode.
func NewEngine(cfg Config) (*Engine, error) {
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ConfigError{Errors: errs}
	}
	rng := NewRandomSource(cfg.Seed)
	e := &Engine{
		cfg:  cfg,
		rng:  rng,
		seed: rng.Seed(),
	}
	e.reset()
	return e, nil
}

// reset restores the idle station with zeroed series.
func (e *Engine) reset() {
	e.chargers = make([]ChargerState, e.cfg.NumChargers)
	for i := range e.chargers {
		e.chargers[i] = newChargerState(i)
	}
	e.sessions = make([]Session, 0)
	e.powerDemand = make([]float64, TicksPerYear)
	e.energyConsumed = make([]float64, TicksPerYear)
	if e.Trace != nil {
		e.Trace.Reset()
	}
}

// Config returns a copy of the validated configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Seed returns the seed string driving the run, including a generated one.
func (e *Engine) Seed() string {
	return e.seed
}

// Chargers returns a copy of the current charger states.
func (e *Engine) Chargers() []ChargerState {
	out := make([]ChargerState, len(e.chargers))
	copy(out, e.chargers)
	return out
}

// Run simulates one year tick by tick and returns the aggregated result.
// Each tick executes the release, arrival and recording phases in that order.
// Calling Run again re-seeds the random source from Seed() and replays the same run.
func (e *Engine) Run() *Result {
	if e.ran {
		e.rng = NewRandomSource(e.seed)
		e.reset()
	}
	e.ran = true
	logrus.Debugf("Starting simulation: chargers=%d power=%.2fkW efficiency=%.2fkWh/100km multiplier=%.2f seed=%q",
		e.cfg.NumChargers, e.cfg.ChargerPowerKW, e.cfg.CarEfficiencyKWhPer100Km, e.cfg.ArrivalMultiplier, e.seed)

	startTime := time.Now()
	for tick := 0; tick < TicksPerYear; tick++ {
		e.releaseCompleted(tick)
		e.handleArrivals(tick)
		e.record(tick)
	}
	elapsed := time.Since(startTime)

	logrus.Infof("[tick %07d] Simulation ended: %d sessions in %v", TicksPerYear, len(e.sessions), elapsed)
	return buildResult(e.cfg, e.seed, e.powerDemand, e.energyConsumed, e.sessions, elapsed)
}

// releaseCompleted frees every charger whose session has ended by tick.
func (e *Engine) releaseCompleted(tick int) {
	for i := range e.chargers {
		c := &e.chargers[i]
		if c.Occupied && c.AvailableAt <= tick {
			c.release()
		}
	}
}

// handleArrivals runs one independent Bernoulli trial per idle charger, in charger
// order. The draw order is part of the reproducibility contract.
func (e *Engine) handleArrivals(tick int) {
	hour := TickToHour(tick)
	p := ArrivalProbabilityPerTick(hour, e.cfg.ArrivalMultiplier)

	for i := range e.chargers {
		c := &e.chargers[i]
		if c.Occupied {
			continue
		}
		if !e.rng.Bernoulli(p) {
			continue
		}
		distanceKm := Sample(e.rng, ChargingDemands)
		if distanceKm == 0 {
			e.traceArrival(tick, hour, c.ID, distanceKm, trace.OutcomeNoCharge, "")
			continue
		}
		s := e.startSession(c, tick, distanceKm)
		e.traceArrival(tick, hour, c.ID, distanceKm, trace.OutcomeSession, s.SessionID)
	}
}

func (e *Engine) startSession(c *ChargerState, tick int, distanceKm float64) Session {
	energy := EnergyNeeded(distanceKm, e.cfg.CarEfficiencyKWhPer100Km)
	duration := ChargingDurationTicks(energy, e.cfg.ChargerPowerKW)
	s := Session{
		SessionID:       sessionID(tick, c.ID),
		ChargerID:       c.ID,
		ArrivalTick:     tick,
		DepartureTick:   tick + duration,
		EnergyNeededKWh: energy,
		DistanceKm:      distanceKm,
	}
	e.sessions = append(e.sessions, s)
	c.occupy(len(e.sessions)-1, s.DepartureTick)
	logrus.Tracef("[tick %07d] charger %d starts session %s: %.0fkm %.2fkWh %d ticks",
		tick, c.ID, s.SessionID, distanceKm, energy, duration)
	return s
}

// record stores instantaneous power and metered energy for tick.
func (e *Engine) record(tick int) {
	power := 0.0
	energy := 0.0
	for i := range e.chargers {
		c := &e.chargers[i]
		idx, ok := c.SessionIndex()
		if !c.Occupied || !ok {
			continue
		}
		power += e.cfg.ChargerPowerKW
		energy += tickEnergy(e.sessions[idx], tick, e.cfg.ChargerPowerKW)
	}
	e.powerDemand[tick] = power
	e.energyConsumed[tick] = energy
}

func (e *Engine) traceArrival(tick, hour, chargerID int, distanceKm float64, outcome trace.Outcome, id string) {
	if e.Trace == nil || !e.Trace.Config.Enabled() {
		return
	}
	e.Trace.RecordArrival(trace.ArrivalRecord{
		Tick:       tick,
		Timestamp:  TickToTimestamp(tick),
		Hour:       hour,
		ChargerID:  chargerID,
		DistanceKm: distanceKm,
		Outcome:    outcome,
		SessionID:  id,
	})
}
