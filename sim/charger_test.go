package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChargerState_OccupyRelease(t *testing.T) {
	c := newChargerState(3)
	_, ok := c.SessionIndex()
	assert.False(t, c.Occupied)
	assert.False(t, ok)

	c.occupy(7, 120)
	idx, ok := c.SessionIndex()
	assert.True(t, c.Occupied)
	assert.True(t, ok)
	assert.Equal(t, 7, idx)
	assert.Equal(t, 120, c.AvailableAt)

	c.release()
	_, ok = c.SessionIndex()
	assert.False(t, c.Occupied)
	assert.False(t, ok)
	assert.Equal(t, 3, c.ID)
}

func TestEnergyNeeded(t *testing.T) {
	assert.InDelta(t, 3.6, EnergyNeeded(20, 18), 1e-12)
	assert.InDelta(t, 54, EnergyNeeded(300, 18), 1e-12)
	assert.Equal(t, 0.0, EnergyNeeded(0, 18))
}

func TestChargingDurationTicks_RoundsUp(t *testing.T) {
	tests := []struct {
		energy, power float64
		want          int
	}{
		{11, 11, 4},     // exactly one hour
		{3.6, 11, 2},    // 1.31 ticks
		{0.9, 3.7, 1},   // 0.97 ticks
		{54, 11, 20},    // 19.64 ticks
		{90, 350, 2},    // 1.03 ticks
		{2.75, 11, 1},   // exactly one tick
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChargingDurationTicks(tt.energy, tt.power), "energy=%v power=%v", tt.energy, tt.power)
	}
}

func TestTickEnergy_WholeTicks(t *testing.T) {
	// GIVEN 11 kWh at 11 kW: exactly four ticks
	s := Session{ArrivalTick: 10, DepartureTick: 14, EnergyNeededKWh: 11}

	total := 0.0
	for tick := 10; tick < 14; tick++ {
		e := tickEnergy(s, tick, 11)
		assert.InDelta(t, 2.75, e, 1e-12, "tick %d", tick)
		total += e
	}

	assert.InDelta(t, 11, total, 1e-9)
}

func TestTickEnergy_FractionalLastTick(t *testing.T) {
	// GIVEN 3.6 kWh at 11 kW: 1.309 ticks, blocked for 2
	s := Session{ArrivalTick: 0, DepartureTick: 2, EnergyNeededKWh: 3.6}

	first := tickEnergy(s, 0, 11)
	last := tickEnergy(s, 1, 11)

	assert.InDelta(t, 2.75, first, 1e-12)
	assert.InDelta(t, 0.85, last, 1e-9)
	assert.InDelta(t, 3.6, first+last, 1e-9)
}

func TestTickEnergy_AfterDeparture(t *testing.T) {
	s := Session{ArrivalTick: 0, DepartureTick: 2, EnergyNeededKWh: 3.6}
	assert.Equal(t, 0.0, tickEnergy(s, 2, 11))
}

func TestSessionID(t *testing.T) {
	assert.Equal(t, "1234-7", sessionID(1234, 7))
	assert.Equal(t, 4, Session{ArrivalTick: 6, DepartureTick: 10}.DurationTicks())
}
