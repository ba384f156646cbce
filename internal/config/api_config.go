package config

import (
	"strings"
	"time"
)

const (
	apiBaseURLVar   = "API_BASE_URL"
	imageBaseURLVar = "IMAGE_BASE_URL"
	apiTimeoutVar   = "API_TIMEOUT"
	loginPathVar    = "LOGIN_PATH"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetImageBaseURL() string
	GetAPITimeout() time.Duration
	GetLoginPath() string
}

type API struct {
	file *fileValues
}

var _ APIConfig = API{}

func (a API) GetAPIBaseURL() string {
	url := GetEnv(apiBaseURLVar, fileOr(a.file, func(f *fileValues) string { return f.API.BaseURL }, "http://localhost:8080"))
	return strings.TrimRight(url, "/")
}

// GetImageBaseURL is only consumed by the CRUD screens; it is carried so the
// console can show where media is served from.
func (a API) GetImageBaseURL() string {
	return GetEnv(imageBaseURLVar, fileOr(a.file, func(f *fileValues) string { return f.API.ImageBaseURL }, "http://localhost:8080/uploads"))
}

func (a API) GetAPITimeout() time.Duration {
	raw := GetEnv(apiTimeoutVar, fileOr(a.file, func(f *fileValues) string { return f.API.Timeout }, ""))
	return parseDuration(raw, 15*time.Second)
}

// GetLoginPath is the unauthenticated entry point the gate redirects to.
func (a API) GetLoginPath() string {
	return GetEnv(loginPathVar, fileOr(a.file, func(f *fileValues) string { return f.API.LoginPath }, "/login"))
}

func parseDuration(raw string, defaultValue time.Duration) time.Duration {
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
