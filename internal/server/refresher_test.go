package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"parttracker/internal/model"
)

func float64Ptr(v float64) *float64 {
	return &v
}

func TestDropReason(t *testing.T) {
	tests := []struct {
		name      string
		previous  *float64
		current   *float64
		wantFired bool
	}{
		{name: "strict drop fires", previous: float64Ptr(100.0), current: float64Ptr(90.0), wantFired: true},
		{name: "equal price does not fire", previous: float64Ptr(90.0), current: float64Ptr(90.0)},
		{name: "increase does not fire", previous: float64Ptr(90.0), current: float64Ptr(100.0)},
		{name: "no previous observation", previous: nil, current: float64Ptr(90.0)},
		{name: "no current price", previous: float64Ptr(100.0), current: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, fired := dropReason(tt.previous, tt.current)
			assert.Equal(t, tt.wantFired, fired)
			if !tt.wantFired {
				assert.Empty(t, reason)
			}
		})
	}
}

func TestDropReasonMentionsBothPrices(t *testing.T) {
	reason, fired := dropReason(float64Ptr(100.0), float64Ptr(90.0))
	assert.True(t, fired)
	assert.Contains(t, reason, "100.0")
	assert.Contains(t, reason, "90.0")
}

func TestThresholdReason(t *testing.T) {
	rule := func(threshold float64, enabled bool) model.ThresholdRule {
		return model.ThresholdRule{OEM: "BX8071512400", ThresholdCAD: threshold, Enabled: enabled}
	}

	t.Run("fires at the threshold", func(t *testing.T) {
		reason, ok := thresholdReason([]model.ThresholdRule{rule(90.0, true)}, float64Ptr(90.0))
		assert.True(t, ok)
		assert.Contains(t, reason, "90.00")
	})

	t.Run("fires below the threshold without any prior observation", func(t *testing.T) {
		_, ok := thresholdReason([]model.ThresholdRule{rule(95.0, true)}, float64Ptr(90.0))
		assert.True(t, ok)
	})

	t.Run("does not fire above the threshold", func(t *testing.T) {
		_, ok := thresholdReason([]model.ThresholdRule{rule(85.0, true)}, float64Ptr(90.0))
		assert.False(t, ok)
	})

	t.Run("disabled rules are skipped", func(t *testing.T) {
		_, ok := thresholdReason([]model.ThresholdRule{rule(95.0, false)}, float64Ptr(90.0))
		assert.False(t, ok)
	})

	t.Run("last matching rule provides the reason", func(t *testing.T) {
		rules := []model.ThresholdRule{rule(100.0, true), rule(95.0, true), rule(50.0, true)}
		reason, ok := thresholdReason(rules, float64Ptr(90.0))
		assert.True(t, ok)
		assert.Contains(t, reason, "95.00")
		assert.NotContains(t, reason, "100.00")
	})

	t.Run("nil price never fires", func(t *testing.T) {
		_, ok := thresholdReason([]model.ThresholdRule{rule(95.0, true)}, nil)
		assert.False(t, ok)
	})
}

func TestShouldSendNotification(t *testing.T) {
	tests := []struct {
		name     string
		settings model.NotificationSettings
		want     bool
	}{
		{
			name:     "enabled with key",
			settings: model.NotificationSettings{NotificationsEnabled: true, PushbulletAPIKey: "o.abc123"},
			want:     true,
		},
		{
			name:     "disabled with key",
			settings: model.NotificationSettings{NotificationsEnabled: false, PushbulletAPIKey: "o.abc123"},
			want:     false,
		},
		{
			name:     "enabled without key",
			settings: model.NotificationSettings{NotificationsEnabled: true},
			want:     false,
		},
		{
			name:     "zero value",
			settings: model.NotificationSettings{},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldSendNotification(tt.settings))
		})
	}
}
