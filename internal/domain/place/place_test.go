package place

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInterestPoint(t *testing.T) {
	owner := uuid.New()
	p, err := NewInterestPoint(owner, " Villarreal ", 39.93333, -0.1)
	require.NoError(t, err)

	assert.Equal(t, "Villarreal", p.Name())
	assert.Len(t, p.Geohash(), geohashPrecision)
	assert.Equal(t, "ezp", p.Geohash()[:3])

	np := p.ToNamedPoint()
	c, ok := np.Coordinate()
	require.True(t, ok)
	assert.Equal(t, 39.93333, c.Latitude)
}

func TestNewInterestPoint_InvalidCoordinates(t *testing.T) {
	tests := []struct {
		lat, lng float64
	}{
		{91, 0},
		{-90.5, 0},
		{0, 180.1},
		{0, -181},
	}
	for _, tt := range tests {
		_, err := NewInterestPoint(uuid.New(), "Nowhere", tt.lat, tt.lng)
		assert.ErrorIs(t, err, ErrInvalidCoordinates)
	}
}

func TestNewInterestPoint_Boundaries(t *testing.T) {
	for _, c := range [][2]float64{{90, 180}, {-90, -180}, {0, 0}} {
		_, err := NewInterestPoint(uuid.New(), "Edge", c[0], c[1])
		assert.NoError(t, err)
	}
}

func TestNewInterestPoint_RequiresName(t *testing.T) {
	_, err := NewInterestPoint(uuid.New(), "  ", 1, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCoordinates)
}
