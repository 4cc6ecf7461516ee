package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValetRate(t *testing.T) {
	t.Run("recent observation", func(t *testing.T) {
		body := []byte(`{
			"terms": {"url": "https://www.bankofcanada.ca/terms/"},
			"seriesDetail": {"FXUSDCAD": {"label": "USD/CAD"}},
			"observations": [{"d": "2023-01-16", "FXUSDCAD": {"v": "1.3398"}}]
		}`)
		rate, err := parseValetRate(body)
		require.NoError(t, err)
		assert.InDelta(t, 1.3398, rate, 0.00001)
	})

	t.Run("empty observations", func(t *testing.T) {
		_, err := parseValetRate([]byte(`{"observations": []}`))
		assert.Error(t, err)
	})

	t.Run("missing rate value", func(t *testing.T) {
		_, err := parseValetRate([]byte(`{"observations": [{"d": "2023-01-16", "FXUSDCAD": {}}]}`))
		assert.Error(t, err)
	})

	t.Run("non-numeric rate value", func(t *testing.T) {
		_, err := parseValetRate([]byte(`{"observations": [{"FXUSDCAD": {"v": "n/a"}}]}`))
		assert.Error(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := parseValetRate([]byte(`<html>maintenance</html>`))
		assert.Error(t, err)
	})
}
