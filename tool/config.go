package tool

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moyoez/zipconsole/types"
)

var (
	ConfigPath    = "config.yaml" // be aware that it can be changed, default to ./config.yaml
	configMu      sync.RWMutex
	CurrentConfig types.AppConfig
)

func DefaultConfig() types.AppConfig {
	return types.AppConfig{
		ServerURL:            "http://127.0.0.1:8000",
		DetailsBaseURL:       "http://127.0.0.1:5173",
		Port:                 53318,
		UploadTimeoutSeconds: 600, // large archives on slow links
		UploadsPerSecond:     0,
		CacheTTLSeconds:      30,
		NotifyWebsocket:      true,
		NotifySocketPath:     "",
		SessionPath:          "",
	}
}

// LoadConfig reads path (default ./config.yaml). A missing file is created with defaults.
func LoadConfig(path string) (types.AppConfig, error) {
	if path == "" {
		path = ConfigPath
	}
	ConfigPath = path

	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := writeConfig(path, cfg); writeErr != nil {
				return cfg, fmt.Errorf("config file not found, and failed to generate default config: %v", writeErr)
			}
			DefaultLogger.Infof("Created new config file at %s", path)
			setCurrentConfig(cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if info.IsDir() {
		return cfg, fmt.Errorf("config file path is a directory: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}
	if cfg.Port <= 0 {
		cfg.Port = DefaultConfig().Port
	}

	setCurrentConfig(cfg)
	return cfg, nil
}

// ApplyFlagOverrides merges CLI flags into cfg. Only set flags win.
func ApplyFlagOverrides(cfg *types.AppConfig, flags types.Config) {
	if flags.UseServer != "" {
		cfg.ServerURL = flags.UseServer
	}
	if flags.UsePort > 0 {
		cfg.Port = flags.UsePort
	}
	if flags.UseSessionPath != "" {
		cfg.SessionPath = flags.UseSessionPath
	}
}

// ApplyConfigPatch applies a partial update. Negative numbers are rejected.
func ApplyConfigPatch(cfg types.AppConfig, patch types.ConfigPatchRequest) (types.AppConfig, error) {
	if patch.ServerURL != nil {
		if _, err := BuildUploadZipURL(*patch.ServerURL); err != nil {
			return cfg, err
		}
		cfg.ServerURL = *patch.ServerURL
	}
	if patch.DetailsBaseURL != nil {
		cfg.DetailsBaseURL = *patch.DetailsBaseURL
	}
	if patch.UploadTimeoutSeconds != nil {
		if *patch.UploadTimeoutSeconds < 0 {
			return cfg, fmt.Errorf("upload_timeout_seconds must be >= 0")
		}
		cfg.UploadTimeoutSeconds = *patch.UploadTimeoutSeconds
	}
	if patch.UploadsPerSecond != nil {
		if *patch.UploadsPerSecond < 0 {
			return cfg, fmt.Errorf("uploads_per_second must be >= 0")
		}
		cfg.UploadsPerSecond = *patch.UploadsPerSecond
	}
	if patch.CacheTTLSeconds != nil {
		if *patch.CacheTTLSeconds < 0 {
			return cfg, fmt.Errorf("cache_ttl_seconds must be >= 0")
		}
		cfg.CacheTTLSeconds = *patch.CacheTTLSeconds
	}
	if patch.NotifyWebsocket != nil {
		cfg.NotifyWebsocket = *patch.NotifyWebsocket
	}
	if patch.NotifySocketPath != nil {
		cfg.NotifySocketPath = *patch.NotifySocketPath
	}
	return cfg, nil
}

// UploadTimeout returns the per-archive timeout, 0 when disabled.
func UploadTimeout(cfg types.AppConfig) time.Duration {
	if cfg.UploadTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(cfg.UploadTimeoutSeconds) * time.Second
}

// ResolveSessionPath returns the session file path; by default it sits next to the config file.
func ResolveSessionPath(cfg types.AppConfig) string {
	if cfg.SessionPath != "" {
		return cfg.SessionPath
	}
	return filepath.Join(filepath.Dir(ConfigPath), "session.yaml")
}

func writeConfig(path string, cfg types.AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func setCurrentConfig(cfg types.AppConfig) {
	configMu.Lock()
	defer configMu.Unlock()
	CurrentConfig = cfg
}

// GetCurrentConfig returns a copy of the in-memory config.
func GetCurrentConfig() types.AppConfig {
	configMu.RLock()
	defer configMu.RUnlock()
	return CurrentConfig
}

// PersistAppConfig updates in-memory AppConfig and writes the config file.
func PersistAppConfig(cfg types.AppConfig) error {
	setCurrentConfig(cfg)
	if err := writeConfig(ConfigPath, cfg); err != nil {
		DefaultLogger.Warnf("Failed to persist config: %v", err)
		return err
	}
	return nil
}

// ListingTTL returns the dashboard listing cache TTL, 0 when caching is off.
func ListingTTL(cfg types.AppConfig) time.Duration {
	if cfg.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(cfg.CacheTTLSeconds) * time.Second
}
