package queryapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDurationSingleUnit(t *testing.T) {
	d, err := ParseDuration("10ms")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, d)
}

func TestParseDurationCombined(t *testing.T) {
	d, err := ParseDuration("1.2h30m45s120.2ms")
	require.NoError(t, err)

	expected := time.Duration(1.2*float64(time.Hour)) +
		30*time.Minute + 45*time.Second +
		time.Duration(120.2*float64(time.Millisecond))
	assert.Equal(t, expected, d)
}

func TestParseDurationNegative(t *testing.T) {
	d, err := ParseDuration("-5s")
	require.NoError(t, err)
	assert.Equal(t, -5*time.Second, d)
}

func TestParseDurationMicroseconds(t *testing.T) {
	d, err := ParseDuration("5us")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Microsecond, d)

	d, err = ParseDuration("5µs")
	require.NoError(t, err)
	assert.Equal(t, 5*time.Microsecond, d)
}

func TestParseDurationInvalidUnit(t *testing.T) {
	_, err := ParseDuration("5x")
	assert.Error(t, err)
}

func TestParseDurationEmptyIsError(t *testing.T) {
	_, err := ParseDuration("")
	assert.Error(t, err)
}

func TestParseOptionalDurationEmptyIsNil(t *testing.T) {
	d, err := ParseOptionalDuration("")
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestParseOptionalDurationNonEmpty(t *testing.T) {
	d, err := ParseOptionalDuration("10ms")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 10*time.Millisecond, *d)
}
