package trace

import (
	"testing"
)

func TestSimulationTrace_RecordArrival_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for arrivals
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelArrivals})

	// WHEN an arrival record is recorded
	st.RecordArrival(ArrivalRecord{
		Tick:       64,
		Timestamp:  "Day 1, 16:00",
		Hour:       16,
		ChargerID:  3,
		DistanceKm: 50,
		Outcome:    OutcomeSession,
		SessionID:  "64-3",
	})

	// THEN the trace contains one record with correct data
	if len(st.Arrivals) != 1 {
		t.Fatalf("expected 1 arrival, got %d", len(st.Arrivals))
	}
	if st.Arrivals[0].SessionID != "64-3" {
		t.Errorf("expected session ID 64-3, got %s", st.Arrivals[0].SessionID)
	}
	if st.Arrivals[0].Outcome != OutcomeSession {
		t.Errorf("expected outcome %q, got %q", OutcomeSession, st.Arrivals[0].Outcome)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelArrivals})

	// WHEN multiple records are added
	st.RecordArrival(ArrivalRecord{Tick: 10, ChargerID: 0, Outcome: OutcomeNoCharge})
	st.RecordArrival(ArrivalRecord{Tick: 10, ChargerID: 2, Outcome: OutcomeSession})
	st.RecordArrival(ArrivalRecord{Tick: 11, ChargerID: 1, Outcome: OutcomeSession})

	// THEN insertion order is preserved
	want := []int{0, 2, 1}
	for i, w := range want {
		if st.Arrivals[i].ChargerID != w {
			t.Errorf("record %d: expected charger %d, got %d", i, w, st.Arrivals[i].ChargerID)
		}
	}
}

func TestSimulationTrace_Reset_KeepsConfig(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelArrivals})
	st.RecordArrival(ArrivalRecord{Tick: 1})

	st.Reset()

	if len(st.Arrivals) != 0 {
		t.Errorf("expected empty trace after reset, got %d records", len(st.Arrivals))
	}
	if !st.Config.Enabled() {
		t.Error("expected config to survive reset")
	}
}

func TestIsValidTraceLevel(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"", true},
		{"none", true},
		{"arrivals", true},
		{"decisions", false},
		{"ARRIVALS", false},
	}
	for _, tt := range tests {
		if got := IsValidTraceLevel(tt.level); got != tt.valid {
			t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
		}
	}
}
