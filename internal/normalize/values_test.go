package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(false))
	assert.False(t, Truthy(float64(0)))

	assert.True(t, Truthy("0"))
	assert.True(t, Truthy(float64(-1)))
	assert.True(t, Truthy(true))
	assert.True(t, Truthy(map[string]any{}))
	assert.True(t, Truthy([]any{}))
}

func TestFixURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example/a.png", FixURL("https://cdn.example/a.png"))
	assert.Equal(t, "http://cdn.example/a.png", FixURL("http://cdn.example/a.png"))

	assert.Equal(t, "", FixURL("/relative/path.png"))
	assert.Equal(t, "", FixURL("ftp://cdn.example/a.png"))
	assert.Equal(t, "", FixURL(42.0))
	assert.Equal(t, "", FixURL(nil))
}

func TestParseNumber(t *testing.T) {
	n, ok := ParseNumber("1,234 ETH")
	require.True(t, ok)
	assert.Equal(t, 1234.0, n)

	n, ok = ParseNumber("2.5")
	require.True(t, ok)
	assert.Equal(t, 2.5, n)

	n, ok = ParseNumber(float64(7))
	require.True(t, ok)
	assert.Equal(t, 7.0, n)

	_, ok = ParseNumber("free")
	assert.False(t, ok)
	_, ok = ParseNumber(nil)
	assert.False(t, ok)
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, 0.0, ToNumber(nil))
	assert.Equal(t, 0.0, ToNumber("n/a"))
	assert.Equal(t, 5.0, ToNumber(float64(5)))
	assert.Equal(t, 1234.0, ToNumber("1,234 ETH"))
}

func TestToMillis(t *testing.T) {
	t.Run("seconds are scaled", func(t *testing.T) {
		ms := ToMillis(float64(1700000000))
		require.NotNil(t, ms)
		assert.Equal(t, int64(1700000000000), *ms)
	})

	t.Run("milliseconds pass through", func(t *testing.T) {
		ms := ToMillis(float64(1700000000000))
		require.NotNil(t, ms)
		assert.Equal(t, int64(1700000000000), *ms)
	})

	t.Run("ISO timestamp", func(t *testing.T) {
		ms := ToMillis("2026-01-02T15:04:05Z")
		require.NotNil(t, ms)
		want := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC).UnixMilli()
		assert.Equal(t, want, *ms)
	})

	t.Run("date only", func(t *testing.T) {
		assert.NotNil(t, ToMillis("2026-01-02"))
	})

	t.Run("garbage yields nil", func(t *testing.T) {
		assert.Nil(t, ToMillis("soon"))
		assert.Nil(t, ToMillis(nil))
		assert.Nil(t, ToMillis(float64(0)))
		assert.Nil(t, ToMillis(true))
	})
}
