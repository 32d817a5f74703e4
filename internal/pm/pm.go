// Package pm resolves and drives the package manager that invoked hatch.
// Detection reads the npm-style user agent exactly once per run; the resolved
// Manager is passed explicitly to every step that needs it.
package pm

import "strings"

// UserAgentEnv is the environment variable package managers set when they
// execute a binary, e.g. "yarn/1.22.19 npm/? node/v18.16.0 darwin arm64".
const UserAgentEnv = "npm_config_user_agent"

// Manager is one of the four supported package managers.
type Manager string

const (
	Npm  Manager = "npm"
	Yarn Manager = "yarn"
	Pnpm Manager = "pnpm"
	Bun  Manager = "bun"
)

// Detect resolves a Manager from a user-agent string via ordered prefix
// checks. Empty or unrecognized signals resolve to npm. Pure function.
func Detect(userAgent string) Manager {
	switch {
	case strings.HasPrefix(userAgent, "yarn"):
		return Yarn
	case strings.HasPrefix(userAgent, "pnpm"):
		return Pnpm
	case strings.HasPrefix(userAgent, "bun"):
		return Bun
	default:
		return Npm
	}
}

// String returns the manager's executable name.
func (m Manager) String() string {
	return string(m)
}

// Lockfile returns the lockfile name the manager writes.
func (m Manager) Lockfile() string {
	switch m {
	case Yarn:
		return "yarn.lock"
	case Pnpm:
		return "pnpm-lock.yaml"
	case Bun:
		return "bun.lockb"
	default:
		return "package-lock.json"
	}
}

// RunCommand formats the shell command that runs the given script.
// yarn and pnpm invoke scripts directly; npm and bun go through "run".
func (m Manager) RunCommand(script string) string {
	switch m {
	case Yarn, Pnpm:
		return m.String() + " " + script
	default:
		return m.String() + " run " + script
	}
}

// All returns every supported manager.
func All() []Manager {
	return []Manager{Npm, Yarn, Pnpm, Bun}
}
