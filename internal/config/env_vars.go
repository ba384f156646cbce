package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const (
	appNameVar   = "APP_NAME"
	envVar       = "ENV"
	dataDirVar   = "DATA_DIR"
	logLevelVar  = "LOG_LEVEL"
	logPrettyVar = "LOG_PRETTY"
	userAgentVar = "USER_AGENT"

	// Version is reported in the default user agent.
	Version = "0.3.0"
)

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetDataDir() string
	GetLogLevel() string
	GetLogPretty() bool
	GetUserAgent() string
}

type EnvVars struct {
	file *fileValues
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetAppName() string {
	return GetEnv(appNameVar, e.fromFile(func(f *fileValues) string { return f.AppName }, "News Admin"))
}

func (e EnvVars) GetEnv() string {
	return GetEnv(envVar, e.fromFile(func(f *fileValues) string { return f.Env }, "DEV"))
}

// GetDataDir is where the durable store and the console log live.
func (e EnvVars) GetDataDir() string {
	def := "./data"
	if home, err := os.UserHomeDir(); err == nil {
		def = filepath.Join(home, ".news-admin")
	}
	return GetEnv(dataDirVar, e.fromFile(func(f *fileValues) string { return f.DataDir }, def))
}

func (e EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, e.fromFile(func(f *fileValues) string { return f.LogLevel }, "info"))
}

func (e EnvVars) GetLogPretty() bool {
	if v := os.Getenv(logPrettyVar); v != "" {
		b, err := strconv.ParseBool(v)
		return err == nil && b
	}
	if e.file != nil && e.file.LogPretty != nil {
		return *e.file.LogPretty
	}
	return e.GetEnv() == "DEV"
}

// GetUserAgent is the string reported to the session-log backend and fed to
// the device classifier.
func (e EnvVars) GetUserAgent() string {
	def := fmt.Sprintf("news-admin/%s (%s; %s)", Version, runtime.GOOS, runtime.GOARCH)
	return GetEnv(userAgentVar, e.fromFile(func(f *fileValues) string { return f.UserAgent }, def))
}

func (e EnvVars) fromFile(get func(*fileValues) string, defaultValue string) string {
	return fileOr(e.file, get, defaultValue)
}

func fileOr(f *fileValues, get func(*fileValues) string, defaultValue string) string {
	if f == nil {
		return defaultValue
	}
	if v := get(f); v != "" {
		return v
	}
	return defaultValue
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
