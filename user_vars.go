package headlessterm

import (
	"encoding/base64"
	"strings"
)

// SetUserVar stores a user-defined variable (OSC 1337 SetUserVar), as used
// by shell integration scripts to attach structured metadata to a prompt.
func (t *Terminal) SetUserVar(name, value string) {
	if t.middleware != nil && t.middleware.SetUserVar != nil {
		t.middleware.SetUserVar(name, value, t.setUserVarInternal)
		return
	}
	t.setUserVarInternal(name, value)
}

func (t *Terminal) setUserVarInternal(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.userVars == nil {
		t.userVars = make(map[string]string)
	}
	t.userVars[name] = value
}

// GetUserVar returns the value of a user variable, or "" if it was never set.
func (t *Terminal) GetUserVar(name string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userVars[name]
}

// GetUserVars returns a copy of all currently set user variables.
func (t *Terminal) GetUserVars() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]string, len(t.userVars))
	for k, v := range t.userVars {
		out[k] = v
	}
	return out
}

// ClearUserVars removes all user variables.
func (t *Terminal) ClearUserVars() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userVars = nil
}

// applyOSC1337 dispatches the payload of a parsed OSC 1337 sequence, found
// and stripped from the stream by the shared raw-OSC scanner in raw_osc.go.
// Only SetUserVar=name=base64value is currently recognized.
func (t *Terminal) applyOSC1337(payload string) {
	const setUserVarPrefix = "SetUserVar="
	if !strings.HasPrefix(payload, setUserVarPrefix) {
		return
	}
	name, encoded, found := strings.Cut(payload[len(setUserVarPrefix):], "=")
	if !found {
		return
	}
	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return
	}
	t.SetUserVar(name, string(value))
}
