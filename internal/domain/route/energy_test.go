package route

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnergyKind(t *testing.T) {
	tests := map[string]EnergyKind{
		"gasoline":  EnergyGasoline,
		"Diesel":    EnergyDiesel,
		" electric": EnergyElectric,
		"bike":      EnergyBike,
		"walking":   EnergyWalking,
		"plutonium": EnergyUnrecognized,
		"":          EnergyUnrecognized,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseEnergyKind(in), in)
	}
	assert.False(t, EnergyUnrecognized.IsValid())
}

func TestEnergyKind_UnmarshalJSON(t *testing.T) {
	var v Vehicle
	require.NoError(t, json.Unmarshal([]byte(`{"energy_kind":"plutonium"}`), &v))
	assert.Equal(t, EnergyUnrecognized, v.EnergyKind)

	require.NoError(t, json.Unmarshal([]byte(`{"energy_kind":"ELECTRIC"}`), &v))
	assert.Equal(t, EnergyElectric, v.EnergyKind)
}

func TestParseRoutingPreference(t *testing.T) {
	tests := []struct {
		in   string
		want RoutingPreference
		ok   bool
	}{
		{"", PreferFastest, true},
		{"fast", PreferFastest, true},
		{"fastest", PreferFastest, true},
		{"shortest", PreferShortest, true},
		{"Economic", PreferEconomic, true},
		{"scenic", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseRoutingPreference(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNamedPoint_Coordinate(t *testing.T) {
	_, ok := NamedPoint{Name: "Castellón"}.Coordinate()
	assert.False(t, ok)

	c, ok := NamedPoint{Name: "Villarreal", Latitude: ptr(39.9), Longitude: ptr(-0.1)}.Coordinate()
	require.True(t, ok)
	assert.Equal(t, Coordinate{Latitude: 39.9, Longitude: -0.1}, c)
}
