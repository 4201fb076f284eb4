package version

import "os"

// InstanceNameEnv names the variable overriding the reported instance name.
const InstanceNameEnv = "MBEAN_INSTANCE_NAME"

// InstanceName returns the name this process reports about itself: the
// MBEAN_INSTANCE_NAME variable, else the host name.
func InstanceName() string {
	if name := os.Getenv(InstanceNameEnv); name != "" {
		return name
	}

	host, err := os.Hostname()
	if err != nil || host == "" {
		return "'" + InstanceNameEnv + "' is empty"
	}

	return host
}
