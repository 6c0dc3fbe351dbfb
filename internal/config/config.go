// Package config loads the optional .toolboot.yaml (or .toolboot.toml)
// file and applies environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Defaults used when a field is unset.
const (
	DefaultPython    = "python"
	DefaultMinPython = "3.7"
	DefaultBuildDir  = "build"
	DefaultLua       = "5.1"
	DefaultLuaJIT    = "2.1"
	DefaultCompat    = "5.1"
	DefaultLuaRocks  = "latest"
)

// FileNames are the config files looked up, in order of preference.
var FileNames = []string{".toolboot.yaml", ".toolboot.yml", ".toolboot.toml"}

// Config holds the parsed configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	Version      int            `yaml:"version" toml:"version"`
	RawPython    string         `yaml:"python" toml:"python" env:"TOOLBOOT_PYTHON"`             // interpreter used for pip/pipx
	RawMinPython string         `yaml:"min_python" toml:"min_python" env:"TOOLBOOT_MIN_PYTHON"` // e.g. "3.7"
	RawBuildDir  string         `yaml:"build_dir" toml:"build_dir" env:"TOOLBOOT_BUILD_DIR"`    // relative to the workspace
	RawBinDir    string         `yaml:"bin_dir" toml:"bin_dir" env:"PIPX_BIN_DIR"`              // where pipx links executables
	Runtimes     RuntimesConfig `yaml:"runtimes" toml:"runtimes"`
	RawPackages  []string       `yaml:"packages" toml:"packages" env:"TOOLBOOT_PACKAGES" envSeparator:","`
	RawStages    []string       `yaml:"stages" toml:"stages" env:"TOOLBOOT_STAGES" envSeparator:","`
	Log          LogConfig      `yaml:"log" toml:"log"`
}

// RuntimesConfig pins the two runtime variants.
type RuntimesConfig struct {
	Lua      string `yaml:"lua" toml:"lua" env:"TOOLBOOT_LUA"`          // reference interpreter major.minor
	LuaJIT   string `yaml:"luajit" toml:"luajit" env:"TOOLBOOT_LUAJIT"` // JIT variant major.minor
	Compat   string `yaml:"compat" toml:"compat"`                       // LuaJIT source-compatibility mode
	LuaRocks string `yaml:"luarocks" toml:"luarocks"`                   // LuaRocks version for both variants
}

// LogConfig controls the logger.
type LogConfig struct {
	Level     string `yaml:"level" toml:"level" env:"TOOLBOOT_LOG_LEVEL"`
	Timestamp bool   `yaml:"timestamp" toml:"timestamp" env:"TOOLBOOT_LOG_TIMESTAMP"`
}

// DefaultPackages are installed into both runtimes when none are configured.
var DefaultPackages = []string{"amalg", "busted"}

// DefaultStages are run when no stages are configured.
var DefaultStages = []string{"precondition", "base-tool", "provision", "dependencies"}

// Python returns the interpreter command or the default.
func (c *Config) Python() string {
	return orDefault(c.RawPython, DefaultPython)
}

// MinPython returns the minimum interpreter version or the default.
func (c *Config) MinPython() string {
	return orDefault(c.RawMinPython, DefaultMinPython)
}

// BuildDir returns the build root, relative to the workspace unless absolute.
func (c *Config) BuildDir() string {
	return orDefault(c.RawBuildDir, DefaultBuildDir)
}

// BinDir returns the configured pipx binary directory, or "" to use the
// platform default.
func (c *Config) BinDir() string {
	return strings.TrimSpace(c.RawBinDir)
}

// Lua returns the reference interpreter version.
func (c *Config) Lua() string { return orDefault(c.Runtimes.Lua, DefaultLua) }

// LuaJIT returns the JIT variant version.
func (c *Config) LuaJIT() string { return orDefault(c.Runtimes.LuaJIT, DefaultLuaJIT) }

// Compat returns the LuaJIT compatibility mode.
func (c *Config) Compat() string { return orDefault(c.Runtimes.Compat, DefaultCompat) }

// LuaRocks returns the LuaRocks version requested for both runtimes.
func (c *Config) LuaRocks() string { return orDefault(c.Runtimes.LuaRocks, DefaultLuaRocks) }

// Packages returns the configured packages, falling back to defaults.
func (c *Config) Packages() []string {
	if len(c.RawPackages) > 0 {
		return c.RawPackages
	}
	return DefaultPackages
}

// Stages returns the configured stages, falling back to defaults.
func (c *Config) Stages() []string {
	if len(c.RawStages) > 0 {
		return c.RawStages
	}
	return DefaultStages
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// LoadResult holds the parsed config and where it was found.
type LoadResult struct {
	Config    *Config
	Workspace string // the directory Load was called with; build_dir is relative to it
	Root      string // directory holding the config file or .git; falls back to Workspace
	Path      string // config file that was read, empty if none
}

// Load reads the config file from the project root and applies
// environment overrides. The root is discovered by walking upward from
// dir looking for a config file or a .git entry. The root only locates
// the config file: the workspace stays dir. A missing file yields a
// default Config.
func Load(dir string) (*LoadResult, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	root, err := findRoot(start)
	if err != nil {
		root = start
	}

	res := &LoadResult{Config: &Config{}, Workspace: start, Root: root}
	for _, name := range FileNames {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := decode(name, data, res.Config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		res.Path = path
		break
	}

	if err := env.Parse(res.Config); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return res, nil
}

func decode(name string, data []byte, cfg *Config) error {
	if strings.HasSuffix(name, ".toml") {
		return toml.Unmarshal(data, cfg)
	}
	return yaml.Unmarshal(data, cfg)
}

// findRoot walks upward from dir looking for a config file or .git.
func findRoot(dir string) (string, error) {
	for {
		for _, name := range append([]string{".git"}, FileNames...) {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("workspace root not found")
		}
		dir = parent
	}
}
