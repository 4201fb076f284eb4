package core

import (
	"time"

	"github.com/anoideaopen/mbean/core/registry"
	"github.com/anoideaopen/mbean/version"
	"github.com/google/uuid"
)

// ServerInfo is the resource a server publishes about itself as
// mbean:name=Server.
type ServerInfo struct {
	started    time.Time
	instanceID string
	resources  *registry.Registry
}

func newServerInfo(resources *registry.Registry) *ServerInfo {
	return &ServerInfo{
		started:    time.Now().UTC(),
		instanceID: uuid.NewString(),
		resources:  resources,
	}
}

func (s *ServerInfo) GetVersion() string { return version.Release() }

func (s *ServerInfo) GetGoVersion() string { return version.GoVersion() }

// GetInstanceID is unique per server, so restarts can be told apart.
func (s *ServerInfo) GetInstanceID() string { return s.instanceID }

func (s *ServerInfo) GetInstanceName() string { return version.InstanceName() }

func (s *ServerInfo) GetStartTime() time.Time { return s.started }

// GetUptime is rounded to the second.
func (s *ServerInfo) GetUptime() string {
	return time.Since(s.started).Round(time.Second).String()
}

// GetResourceCount counts published resources, excluding the server's own.
func (s *ServerInfo) GetResourceCount() int { return s.resources.Len() }

func (s *ServerInfo) BuildSettings() (map[string]string, error) {
	return version.BuildSettings()
}

func (s *ServerInfo) SystemEnv() map[string]string {
	return version.SystemEnv()
}
