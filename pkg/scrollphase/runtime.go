package scrollphase

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// NativeRuntime is the first host runtime version that pushes phase
// notifications.
const NativeRuntime = "v18.0.0"

// Capability names how a source obtains phase transitions.
type Capability string

const (
	CapabilityNative Capability = "native"
	CapabilityPolled Capability = "polled"
)

// CanonicalVersion normalizes a host runtime version such as "17.4" or
// "v18" into canonical semver form.
func CanonicalVersion(version string) (string, error) {
	v := strings.TrimSpace(version)
	if v == "" {
		return "", fmt.Errorf("empty runtime version")
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid runtime version %q", version)
	}
	return semver.Canonical(v), nil
}

// CapabilityFor reports which phase capability a runtime version supports.
func CapabilityFor(version string) (Capability, error) {
	v, err := CanonicalVersion(version)
	if err != nil {
		return "", err
	}
	if semver.Compare(v, NativeRuntime) >= 0 {
		return CapabilityNative, nil
	}
	return CapabilityPolled, nil
}

// ForRuntime returns the phase source appropriate for the host runtime.
// A host on a native-capable runtime that does not implement [Notifier]
// falls back to polling.
func ForRuntime(version string, state ScrollState) (Source, error) {
	capability, err := CapabilityFor(version)
	if err != nil {
		return nil, fmt.Errorf("scrollphase: %w", err)
	}
	if capability == CapabilityNative {
		if notifier, ok := state.(Notifier); ok {
			return NewNative(notifier), nil
		}
	}
	return NewPolled(state), nil
}
