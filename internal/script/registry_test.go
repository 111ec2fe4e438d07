package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LookupFindsRegisteredScenario(t *testing.T) {
	Register("registry-test-smoke", func(h Host) error { return nil })

	body, err := Lookup("registry-test-smoke")
	require.NoError(t, err)
	assert.NotNil(t, body)

	assert.Contains(t, Names(), "registry-test-smoke")
}

func TestRegistry_LookupUnknownScenario(t *testing.T) {
	_, err := Lookup("registry-test-missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	Register("registry-test-dup", func(h Host) error { return nil })

	assert.Panics(t, func() {
		Register("registry-test-dup", func(h Host) error { return nil })
	})
}
