// Package vars assembles the flat variable map handed to templates.
//
// Tiers, highest first: repository vars, global vars, allow-listed
// environment variables, built-ins (hostname, user, home, os). A lower tier
// only fills names the higher tiers left undefined.
package vars

import (
	"os"
	"os/user"
	"runtime"
	"sort"

	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/joho/godotenv"
)

// EnvNamespace prefixes allow-listed environment variables
const EnvNamespace = "env."

// Vars is an immutable name to value mapping
type Vars struct {
	values map[string]string
}

// Get returns a variable and whether it is defined
func (v Vars) Get(name string) (string, bool) {
	s, ok := v.values[name]
	return s, ok
}

// Map returns a copy suitable for template rendering
func (v Vars) Map() map[string]string {
	out := make(map[string]string, len(v.values))
	for k, s := range v.values {
		out[k] = s
	}
	return out
}

// Names returns the defined names, sorted
func (v Vars) Names() []string {
	names := make([]string, 0, len(v.values))
	for k := range v.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of defined variables
func (v Vars) Len() int {
	return len(v.values)
}

// Environment is a read-only view of environment variables
type Environment interface {
	Lookup(name string) (string, bool)
}

// MapEnvironment is an Environment backed by a map
type MapEnvironment map[string]string

func (m MapEnvironment) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

type processEnv struct {
	dotenv map[string]string
}

func (p processEnv) Lookup(name string) (string, bool) {
	if v, ok := os.LookupEnv(name); ok {
		return v, true
	}
	v, ok := p.dotenv[name]
	return v, ok
}

// ProcessEnvironment reads the process environment, falling back to the
// given dotenv files. The process environment always wins; among files the
// first one defining a name wins. Unreadable files are logged and skipped.
func ProcessEnvironment(files []string) Environment {
	logger := logging.GetLogger("vars")
	merged := map[string]string{}
	for _, f := range files {
		values, err := godotenv.Read(f)
		if err != nil {
			logger.Warn().Err(err).Str("file", f).Msg("Skipping unreadable env file")
			continue
		}
		for k, v := range values {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return processEnv{dotenv: merged}
}

// Builtins are the lowest tier
type Builtins struct {
	Hostname string
	User     string
	Home     string
	OS       string
}

// SystemBuiltins detects the built-ins for the running process
func SystemBuiltins() Builtins {
	b := Builtins{
		Hostname: "unknown",
		User:     "unknown",
		Home:     "~",
		OS:       OSName(runtime.GOOS),
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		b.Hostname = h
	}
	if u := os.Getenv("USER"); u != "" {
		b.User = u
	} else if u := os.Getenv("USERNAME"); u != "" {
		b.User = u
	} else if cur, err := user.Current(); err == nil {
		b.User = cur.Username
	}
	if h, err := os.UserHomeDir(); err == nil {
		b.Home = h
	}
	return b
}

// OSName maps GOOS to the names templates see: macos, linux or windows.
// Any other system (freebsd, openbsd, ...) is reported under its GOOS name
// unchanged, so templates can still tell it apart.
func OSName(goos string) string {
	switch goos {
	case "darwin":
		return "macos"
	case "linux":
		return "linux"
	case "windows":
		return "windows"
	default:
		return goos
	}
}

func (b Builtins) values() map[string]string {
	return map[string]string{
		"hostname": b.Hostname,
		"user":     b.User,
		"home":     b.Home,
		"os":       b.OS,
	}
}

// Resolve combines the four tiers
func Resolve(repoVars map[string]string, global *config.GlobalConfig, env Environment, builtins Builtins) Vars {
	out := map[string]string{}
	fill := func(src map[string]string) {
		for k, v := range src {
			if _, ok := out[k]; !ok {
				out[k] = v
			}
		}
	}

	fill(repoVars)
	if global != nil {
		fill(global.Vars)
	}

	if global != nil && env != nil {
		passed := map[string]string{}
		for _, name := range global.Env.PassThrough {
			if v, ok := env.Lookup(name); ok {
				passed[name] = v
				passed[EnvNamespace+name] = v
			}
		}
		fill(passed)
	}

	fill(builtins.values())
	return Vars{values: out}
}
