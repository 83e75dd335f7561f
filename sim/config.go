package sim

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Configuration bounds.
const (
	MinChargers           = 1
	MaxChargers           = 30
	MinChargerPowerKW     = 3.7
	MaxChargerPowerKW     = 350
	MinCarEfficiency      = 10
	MaxCarEfficiency      = 30
	MinArrivalMultiplier  = 0.2
	MaxArrivalMultiplier  = 2.0
	defaultNumChargers    = 20
	defaultChargerPowerKW = 11
	defaultCarEfficiency  = 18
)

// Config is the immutable input of a simulation run.
// Seed is optional: empty selects a wall-clock derived seed.
type Config struct {
	NumChargers              int     `json:"numChargers" yaml:"num_chargers" validate:"min=1,max=30"`
	ChargerPowerKW           float64 `json:"chargerPowerKW" yaml:"charger_power_kw" validate:"finite,min=3.7,max=350"`
	CarEfficiencyKWhPer100Km float64 `json:"carEfficiencyKWhPer100Km" yaml:"car_efficiency_kwh_per_100km" validate:"finite,min=10,max=30"`
	ArrivalMultiplier        float64 `json:"arrivalMultiplier" yaml:"arrival_multiplier" validate:"finite,min=0.2,max=2"`
	Seed                     string  `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultConfig returns the reference station: 20 chargers at 11 kW,
// 18 kWh/100km and unscaled traffic.
func DefaultConfig() Config {
	return Config{
		NumChargers:              defaultNumChargers,
		ChargerPowerKW:           defaultChargerPowerKW,
		CarEfficiencyKWhPer100Km: defaultCarEfficiency,
		ArrivalMultiplier:        1.0,
	}
}

// TheoreticalMaxPowerKW is the power drawn with every charger occupied.
func (c Config) TheoreticalMaxPowerKW() float64 {
	return float64(c.NumChargers) * c.ChargerPowerKW
}

// ValidationError describes a single field violation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// ConfigError aggregates every ValidationError found when constructing an engine.
type ConfigError struct {
	Errors []ValidationError
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid configuration:")
	for _, ve := range e.Errors {
		fmt.Fprintf(&b, "\n  - %s: %s", ve.Field, ve.Message)
	}
	return b.String()
}

// AsConfigError unwraps err into a *ConfigError if it is one.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

var fieldUnits = map[string]string{
	"chargerPowerKW":           " kW",
	"carEfficiencyKWhPer100Km": " kWh/100km",
}

var configValidator = newConfigValidator()

// newConfigValidator reports fields by their json names and registers the
// "finite" rule; min/max alone let NaN through.
func newConfigValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// Validate checks every field of cfg against its bounds and returns all
// violations at once. An empty slice means cfg is valid.
func Validate(cfg Config) []ValidationError {
	errs := []ValidationError{}
	err := configValidator.Struct(cfg)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return append(errs, ValidationError{Field: "config", Message: err.Error(), Value: cfg})
	}
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: validationMessage(fe),
			Value:   fe.Value(),
		})
	}
	return errs
}

func validationMessage(fe validator.FieldError) string {
	unit := fieldUnits[fe.Field()]
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s%s", fe.Param(), unit)
	case "finite":
		return "must be a finite number"
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// Fingerprint returns a short non-cryptographic hash of cfg, stable across runs,
// so callers can detect identical inputs.
func Fingerprint(cfg Config) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		// NaN or Inf fields; fall back to a formatted dump.
		data = []byte(fmt.Sprintf("%#v", cfg))
	}
	return strconv.FormatUint(uint64(fnv1a64(string(data))), 36)
}
