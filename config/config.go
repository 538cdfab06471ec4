// Package config holds the tool's run-time options: the required
// assembly set gating hytale_def.json output, the output path, and the
// logger every component shares.
package config

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// defaultRequiredAssembly is the scope name dump-ida refuses to run
// without, unless overridden via --required-assembly.
const defaultRequiredAssembly = "HytaleClient"

// defaultOutputPath is where dump-ida writes its JSON side-file.
const defaultOutputPath = "hytale_def.json"

// Config carries the options that shape a single run of the tool.
type Config struct {
	// RequiredAssemblies must all be present among the image's scope
	// definitions before dump-ida will write output.
	RequiredAssemblies []string

	// OutputPath is where dump-ida writes the JSON side-file.
	OutputPath string

	// Verbose raises the logger's level to debug.
	Verbose bool

	// Logger is a custom logger; nil selects a stderr logger filtered at
	// info level (debug when Verbose is set).
	Logger log.Logger
}

// Default returns the tool's baseline configuration.
func Default() Config {
	return Config{
		RequiredAssemblies: []string{defaultRequiredAssembly},
		OutputPath:         defaultOutputPath,
	}
}

// NewLogger builds the kratos log.Helper this configuration selects: the
// caller-supplied Logger if set, otherwise a stderr logger filtered at
// info level, or debug level when Verbose is set.
func (c Config) NewLogger() *log.Helper {
	if c.Logger != nil {
		return log.NewHelper(c.Logger)
	}

	level := log.LevelInfo
	if c.Verbose {
		level = log.LevelDebug
	}
	return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stderr), log.FilterLevel(level)))
}

// HasRequiredAssemblies reports whether every name in c.RequiredAssemblies
// appears in present, the set of scope names found in the image.
func (c Config) HasRequiredAssemblies(present map[string]bool) (missing []string) {
	for _, name := range c.RequiredAssemblies {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
