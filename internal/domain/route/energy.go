package route

import "strings"

// EnergyKind is the propulsion category of a vehicle.
type EnergyKind string

const (
	EnergyGasoline EnergyKind = "gasoline"
	EnergyDiesel   EnergyKind = "diesel"
	EnergyElectric EnergyKind = "electric"
	EnergyBike     EnergyKind = "bike"
	EnergyWalking  EnergyKind = "walking"

	// EnergyUnrecognized stands for any value outside the known kinds. Such a
	// vehicle can still be routed but cannot be priced.
	EnergyUnrecognized EnergyKind = "unrecognized"
)

// ParseEnergyKind maps s onto a known kind, or EnergyUnrecognized.
func ParseEnergyKind(s string) EnergyKind {
	k := EnergyKind(strings.ToLower(strings.TrimSpace(s)))
	if k.IsValid() {
		return k
	}
	return EnergyUnrecognized
}

// IsValid returns true if the kind is one of the five known kinds.
func (k EnergyKind) IsValid() bool {
	switch k {
	case EnergyGasoline, EnergyDiesel, EnergyElectric, EnergyBike, EnergyWalking:
		return true
	}
	return false
}

// IsHumanPowered returns true for bike and walking.
func (k EnergyKind) IsHumanPowered() bool {
	return k == EnergyBike || k == EnergyWalking
}

// UnmarshalText accepts any string, mapping unknown values to EnergyUnrecognized.
func (k *EnergyKind) UnmarshalText(text []byte) error {
	*k = ParseEnergyKind(string(text))
	return nil
}

// FuelKind is the liquid fuel a combustion vehicle burns.
type FuelKind string

const (
	FuelGasoline FuelKind = "gasoline"
	FuelDiesel   FuelKind = "diesel"
)

// RoutingPreference is the objective the directions provider optimises for.
type RoutingPreference string

const (
	PreferFastest  RoutingPreference = "fastest"
	PreferShortest RoutingPreference = "shortest"
	PreferEconomic RoutingPreference = "economic"
)

// ParseRoutingPreference maps s onto a preference. Empty means fastest and
// "fast" is accepted as an alias.
func ParseRoutingPreference(s string) (RoutingPreference, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fast", string(PreferFastest):
		return PreferFastest, true
	case string(PreferShortest):
		return PreferShortest, true
	case string(PreferEconomic):
		return PreferEconomic, true
	}
	return "", false
}
