package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeyBuilder(t *testing.T) {
	tests := []struct {
		environment string
		wantPrefix  string
	}{
		{"production", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"", "prod"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.wantPrefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilderKeys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:polls:42:tally", kb.KeyPollTally(42))
	assert.Equal(t, "prod:polls:list:active", kb.KeyPollList("active"))
	assert.Equal(t, "prod:ledger:resident:7:annual_paid:2025", kb.KeyAnnualFeePaid(7, 2025))
	assert.Equal(t, "prod:ledger:resident:7:payment_stats", kb.KeyResidentStats(7))
}

func TestKeyBuilderEnvironmentIsolation(t *testing.T) {
	prod := NewKeyBuilder("production")
	staging := NewKeyBuilder("staging")

	assert.NotEqual(t, prod.KeyPollTally(1), staging.KeyPollTally(1))
}
