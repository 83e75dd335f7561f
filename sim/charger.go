package sim

import (
	"fmt"
	"math"
)

// noSession marks an idle charger.
const noSession = -1

// Session is a single charging session. Sessions are immutable once created and
// owned by the engine's append-only session list.
type Session struct {
	SessionID       string  `json:"sessionId"`
	ChargerID       int     `json:"chargerId"`
	ArrivalTick     int     `json:"arrivalTick"`
	DepartureTick   int     `json:"departureTick"`
	EnergyNeededKWh float64 `json:"energyNeededKWh"`
	DistanceKm      float64 `json:"distanceKm"`
}

// DurationTicks is the number of ticks the charger is blocked.
func (s Session) DurationTicks() int {
	return s.DepartureTick - s.ArrivalTick
}

// ChargerState is the mutable state of one physical charger.
// Occupied == (session != noSession) holds at every phase boundary.
type ChargerState struct {
	ID          int
	Occupied    bool
	AvailableAt int // tick at which the charger frees up; meaningful only while Occupied
	session     int // index into the engine's session list
}

func newChargerState(id int) ChargerState {
	return ChargerState{ID: id, session: noSession}
}

// SessionIndex returns the index of the current session in the run's session list.
func (c *ChargerState) SessionIndex() (int, bool) {
	return c.session, c.session != noSession
}

func (c *ChargerState) occupy(sessionIdx, departureTick int) {
	c.Occupied = true
	c.session = sessionIdx
	c.AvailableAt = departureTick
}

func (c *ChargerState) release() {
	c.Occupied = false
	c.session = noSession
}

func sessionID(arrivalTick, chargerID int) string {
	return fmt.Sprintf("%d-%d", arrivalTick, chargerID)
}

// EnergyNeeded returns the energy in kWh required to cover distanceKm.
func EnergyNeeded(distanceKm, efficiencyKWhPer100Km float64) float64 {
	return (distanceKm / 100) * efficiencyKWhPer100Km
}

// ChargingDurationTicks returns the charging time in whole ticks, rounded up.
func ChargingDurationTicks(energyKWh, chargerPowerKW float64) int {
	hours := energyKWh / chargerPowerKW
	return int(math.Ceil(hours * TicksPerHour))
}

// tickEnergy returns the energy metered for s during tick. Every tick but the last
// delivers a full quarter hour at chargerPowerKW; the last delivers the fractional
// remainder when the exact duration is not a whole number of ticks.
//
// The exact duration is recomputed from EnergyNeededKWh rather than taken from the
// rounded-up session length.
func tickEnergy(s Session, tick int, chargerPowerKW float64) float64 {
	exactTicks := (s.EnergyNeededKWh / chargerPowerKW) * TicksPerHour
	fraction := exactTicks - math.Floor(exactTicks)
	fullTick := chargerPowerKW / TicksPerHour

	switch remaining := s.DepartureTick - tick; {
	case remaining > 1:
		return fullTick
	case remaining == 1 && fraction > 0:
		return chargerPowerKW * fraction / TicksPerHour
	case remaining == 1:
		return fullTick
	default:
		return 0
	}
}
