package book

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Sort order values for the index comparator.
const (
	SortLexical = "lexical"
	SortTitle   = "title"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	Root    string   `json:"root"`              // content root, relative to the working directory
	Readme  string   `json:"readme,omitempty"`  // index file name, relative to root
	Section string   `json:"section,omitempty"` // managed section heading
	Sort    string   `json:"sort,omitempty"`    // index ordering: lexical | title
	Remote  string   `json:"remote,omitempty"`  // git remote for publish
	Branch  string   `json:"branch,omitempty"`  // git branch for publish; empty = current
	Exclude []string `json:"exclude,omitempty"` // extra reserved file/dir names

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	RootAbs      string `json:"-"` // Absolute path to the content root
	ReadmeAbs    string `json:"-"` // Absolute path to the readme file

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Root:    ".",
		Readme:  DefaultReadmeName,
		Section: "## Chapters and Topics",
		Sort:    SortLexical,
		Remote:  "origin",
	}
}

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/shelf/config.json if set, otherwise
// ~/.config/shelf/config.json. Returns empty string if the home
// directory cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "shelf", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "shelf", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	RootOverride    string            // --root flag value; empty means no override
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/shelf/config.json or ~/.config/shelf/config.json)
// 3. Project config file at default location (.shelf.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	if input.RootOverride != "" {
		cfg.Root = input.RootOverride
	}

	validateErr := validateConfig(cfg)
	if validateErr != nil {
		return Config{}, validateErr
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.Root) {
		cfg.RootAbs = cfg.Root
	} else {
		cfg.RootAbs = filepath.Join(workDir, cfg.Root)
	}

	cfg.ReadmeAbs = filepath.Join(cfg.RootAbs, cfg.Readme)

	return cfg, nil
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, explicitEmpty, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if err := checkExplicitEmpty(globalCfgPath, explicitEmpty); err != nil {
		return Config{}, "", err
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.shelf.json) or an
// explicit config file. Returns the config, the path if loaded, and
// any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		// Check existence first to provide a clear "not found" error
		_, statErr := os.Stat(cfgFile)
		if statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
		mustExist = false
	}

	fileCfg, explicitEmpty, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	if err := checkExplicitEmpty(cfgFile, explicitEmpty); err != nil {
		return Config{}, "", err
	}

	return fileCfg, cfgFile, nil
}

func checkExplicitEmpty(path string, explicitEmpty map[string]bool) error {
	if explicitEmpty["root"] {
		return fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrRootEmpty)
	}

	if explicitEmpty["readme"] {
		return fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrReadmeEmpty)
	}

	return nil
}

// loadConfigFile loads a config file. If mustExist is false, missing
// files return zero config. Returns the config, a map of explicitly
// empty fields, whether the file was loaded, and any error.
func loadConfigFile(path string, mustExist bool) (Config, map[string]bool, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, nil, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
		}

		return Config{}, nil, false, nil
	}

	cfg, explicitEmpty, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, nil, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, explicitEmpty, true, nil
}

func parseConfig(data []byte) (Config, map[string]bool, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Check which fields were explicitly set to empty
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	for _, field := range []string{"root", "readme"} {
		if val, exists := raw[field]; exists {
			if str, ok := val.(string); ok && str == "" {
				explicitEmpty[field] = true
			}
		}
	}

	return cfg, explicitEmpty, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Root != "" {
		base.Root = overlay.Root
	}

	if overlay.Readme != "" {
		base.Readme = overlay.Readme
	}

	if overlay.Section != "" {
		base.Section = overlay.Section
	}

	if overlay.Sort != "" {
		base.Sort = overlay.Sort
	}

	if overlay.Remote != "" {
		base.Remote = overlay.Remote
	}

	if overlay.Branch != "" {
		base.Branch = overlay.Branch
	}

	if len(overlay.Exclude) > 0 {
		base.Exclude = overlay.Exclude
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.Root == "" {
		return ErrRootEmpty
	}

	if cfg.Readme == "" {
		return ErrReadmeEmpty
	}

	if cfg.Sort != SortLexical && cfg.Sort != SortTitle {
		return fmt.Errorf("%w: %q", ErrInvalidSort, cfg.Sort)
	}

	return nil
}

// FormatConfig renders the serializable part of the config as
// indented JSON for print-config.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}
