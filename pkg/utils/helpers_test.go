package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNullableFloat(t *testing.T) {
	v := ParseNullableFloat(" 36000.5 ")
	require.NotNil(t, v)
	assert.Equal(t, 36000.5, *v)

	v = ParseNullableFloat("1.26e9")
	require.NotNil(t, v)
	assert.Equal(t, 1.26e9, *v)

	assert.Nil(t, ParseNullableFloat(""))
	assert.Nil(t, ParseNullableFloat("   "))
	assert.Nil(t, ParseNullableFloat("n/a"))
}

func TestFormatNullableFloat(t *testing.T) {
	assert.Equal(t, "", FormatNullableFloat(nil))
	assert.Equal(t, "0.1", FormatNullableFloat(Float64Ptr(0.1)))
	assert.Equal(t, "-1000", FormatNullableFloat(Float64Ptr(-1000)))
}

func TestFormatFloatRoundTrips(t *testing.T) {
	// Shortest round-tripping representation keeps exports stable.
	assert.Equal(t, "36000", FormatFloat(36000))

	a, b := 0.1, 0.2
	assert.Equal(t, "0.30000000000000004", FormatFloat(a+b))
}
