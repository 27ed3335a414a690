package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyvo/advisor/internal/domain"
)

func TestNumericRoundTrip(t *testing.T) {
	n := numericFromFloat(1234.56)
	require.True(t, n.Valid)
	assert.InDelta(t, 1234.56, numericToFloat(n), 0.0001)
}

func TestNumericNullHandling(t *testing.T) {
	assert.Equal(t, float64(0), numericToFloat(numericFromPtr(nil)))
	assert.Nil(t, floatPtr(numericFromPtr(nil)))

	v := 99.5
	got := floatPtr(numericFromPtr(&v))
	require.NotNil(t, got)
	assert.InDelta(t, 99.5, *got, 0.0001)
}

func TestUnmarshalJSONBNullColumn(t *testing.T) {
	var riders []domain.Rider
	require.NoError(t, unmarshalJSONB(nil, &riders))
	assert.Nil(t, riders)
}

func TestUnmarshalJSONBRiders(t *testing.T) {
	raw := []byte(`[{"type":"critical_illness","name":"Critical Illness Cover","premium_multiplier":1.2}]`)

	var riders []domain.Rider
	require.NoError(t, unmarshalJSONB(raw, &riders))
	require.Len(t, riders, 1)
	assert.Equal(t, "critical_illness", riders[0].Type)
	assert.InDelta(t, 1.2, riders[0].PremiumMultiplier, 0.0001)
}

func TestTextOrNull(t *testing.T) {
	assert.False(t, textOrNull("").Valid)
	assert.True(t, textOrNull("Mumbai").Valid)
}
