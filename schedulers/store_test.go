package schedulers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPolicyKnown(t *testing.T) {
	for _, name := range []string{EfficiencyMigration, FirstFit, LoadAware, RoundRobin} {
		p, err := BuildPolicy(name)
		assert.NoError(t, err)
		assert.Equal(t, name, p.Name())
	}
}

func TestBuildPolicyUnknown(t *testing.T) {
	_, err := BuildPolicy("does-not-exist")
	assert.Error(t, err)
}

func TestBuildPolicyReturnsFreshInstances(t *testing.T) {
	a, _ := BuildPolicy(RoundRobin)
	b, _ := BuildPolicy(RoundRobin)
	assert.False(t, a == b, "BuildPolicy should construct a fresh policy value each call")
}

func TestPolicyNamesIncludesEveryRegisteredPolicy(t *testing.T) {
	names := PolicyNames()
	assert.ElementsMatch(t, []string{EfficiencyMigration, FirstFit, LoadAware, RoundRobin}, names)
}
