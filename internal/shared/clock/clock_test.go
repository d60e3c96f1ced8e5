package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWidthKeepsLexicographicOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// sub-second steps expose the trailing-zero trimming that RFC3339Nano
	// would suffer from
	steps := []time.Duration{0, 100 * time.Microsecond, time.Millisecond, time.Second, time.Hour}
	for i := 1; i < len(steps); i++ {
		a := FromTime(base.Add(steps[i-1]))
		b := FromTime(base.Add(steps[i]))
		assert.Less(t, a, b)
		assert.Len(t, a, len(b))
	}
}

func TestParseRoundTrip(t *testing.T) {
	in := time.Date(2026, 3, 1, 12, 0, 0, 123456000, time.UTC)
	out, err := Parse(FromTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}
