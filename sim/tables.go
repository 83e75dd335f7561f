package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// probabilityTolerance is the allowed deviation of a probability table sum from 1.
const probabilityTolerance = 1e-4

// ArrivalProbabilities is the probability of an EV arriving during each hour of the day.
// Low overnight (0.94%), rising through the day, peaking at 10.38% between 16:00 and 19:00.
var ArrivalProbabilities = [HoursPerDay]float64{
	0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, 0.0094, // 00-08
	0.0283, 0.0283, // 08-10
	0.0566, 0.0566, 0.0566, // 10-13
	0.0755, 0.0755, 0.0755, // 13-16
	0.1038, 0.1038, 0.1038, // 16-19 peak
	0.0473, 0.0472, 0.0472, // 19-22
	0.0094, 0.0094, // 22-24
}

// ChargingDemands is the distribution of trip distances (km) an arriving car needs to recharge.
// The 0 km outcome is an arrival that does not charge.
var ChargingDemands = []Weighted[float64]{
	{Value: 0, Probability: 0.3434},
	{Value: 5, Probability: 0.0490},
	{Value: 10, Probability: 0.0980},
	{Value: 20, Probability: 0.1176},
	{Value: 30, Probability: 0.0882},
	{Value: 50, Probability: 0.1176},
	{Value: 100, Probability: 0.1078},
	{Value: 200, Probability: 0.0490},
	{Value: 300, Probability: 0.0294},
}

func init() {
	if err := CheckTables(); err != nil {
		logrus.Warnf("probability tables are inconsistent: %v", err)
	}
}

// CheckTables verifies that both reference tables are non-negative and sum to 1
// within probabilityTolerance.
func CheckTables() error {
	if err := checkDistribution("arrival", ArrivalProbabilities[:]); err != nil {
		return err
	}
	weights := make([]float64, len(ChargingDemands))
	for i, d := range ChargingDemands {
		weights[i] = d.Probability
	}
	return checkDistribution("charging demand", weights)
}

func checkDistribution(name string, weights []float64) error {
	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("%s table: entry %d has invalid probability %v", name, i, w)
		}
		total += w
	}
	if math.Abs(total-1) > probabilityTolerance {
		return fmt.Errorf("%s table: probabilities sum to %.6f, not 1", name, total)
	}
	return nil
}

// ArrivalProbabilityPerTick converts an hourly arrival probability into the per-tick,
// per-charger probability used in the arrival phase.
func ArrivalProbabilityPerTick(hour int, multiplier float64) float64 {
	return (ArrivalProbabilities[hour] / TicksPerHour) * multiplier
}
