package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

const configPathVar = "NEWSADMIN_CONFIG"

type Config interface {
	EnvConfig
	APIConfig
	LookupConfig
	StorageConfig
	DeviceConfig
	StubConfig
}

type mainConfig struct {
	EnvVars
	API
	Lookups
	Storage
	Device
	Stub
}

// fileValues mirrors the optional TOML config file. Environment variables take
// precedence over anything set here.
type fileValues struct {
	AppName   string `toml:"app_name"`
	Env       string `toml:"env"`
	DataDir   string `toml:"data_dir"`
	LogLevel  string `toml:"log_level"`
	LogPretty *bool  `toml:"log_pretty"`
	UserAgent string `toml:"user_agent"`

	API struct {
		BaseURL      string `toml:"base_url"`
		ImageBaseURL string `toml:"image_base_url"`
		Timeout      string `toml:"timeout"`
		LoginPath    string `toml:"login_path"`
	} `toml:"api"`

	Lookups struct {
		IPURL  string `toml:"ip_url"`
		GeoURL string `toml:"geo_url"`
	} `toml:"lookups"`

	Storage struct {
		Driver     string `toml:"driver"`
		SQLitePath string `toml:"sqlite_path"`
		RedisAddr  string `toml:"redis_addr"`
		RedisDB    int    `toml:"redis_db"`
		SessionTTL string `toml:"session_ttl"`
	} `toml:"storage"`

	Device struct {
		MobilePattern string `toml:"mobile_pattern"`
		TabletPattern string `toml:"tablet_pattern"`
	} `toml:"device"`

	Stub struct {
		Addr          string `toml:"addr"`
		Secret        string `toml:"secret"`
		TokenTTL      string `toml:"token_ttl"`
		AdminEmail    string `toml:"admin_email"`
		AdminPassword string `toml:"admin_password"`
	} `toml:"stub"`
}

// New returns a Config backed by environment variables and built-in defaults.
func New() Config {
	return mainConfig{}
}

// Load returns a Config that also consults the TOML file at path. An empty path
// falls back to $NEWSADMIN_CONFIG; when neither is set this is the same as New.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(configPathVar)
	}
	if path == "" {
		return New(), nil
	}

	var fv fileValues
	if _, err := toml.DecodeFile(path, &fv); err != nil {
		return nil, fmt.Errorf("config.Load %s: %w", path, err)
	}
	return mainConfig{
		EnvVars: EnvVars{file: &fv},
		API:     API{file: &fv},
		Lookups: Lookups{file: &fv},
		Storage: Storage{file: &fv},
		Device:  Device{file: &fv},
		Stub:    Stub{file: &fv},
	}, nil
}
