package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

func (kb *KeyBuilder) KeyPollTally(pollID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollTally, pollID))
}

func (kb *KeyBuilder) KeyPollList(filter string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollList, filter))
}

func (kb *KeyBuilder) KeyAnnualFeePaid(residentID int64, year int) string {
	return kb.BuildKey(fmt.Sprintf(KeyAnnualFeePaid, residentID, year))
}

func (kb *KeyBuilder) KeyResidentStats(residentID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyResidentStats, residentID))
}
