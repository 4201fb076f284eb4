package version_test

import (
	"os"
	"testing"

	"github.com/anoideaopen/mbean/version"
	"github.com/stretchr/testify/assert"
)

func TestInstanceNameFromEnv(t *testing.T) {
	t.Setenv(version.InstanceNameEnv, "billing-1")
	assert.Equal(t, "billing-1", version.InstanceName())
}

func TestInstanceNameFromHost(t *testing.T) {
	t.Setenv(version.InstanceNameEnv, "")
	host, err := os.Hostname()
	if err != nil {
		t.Skip(err)
	}
	assert.Equal(t, host, version.InstanceName())
}
