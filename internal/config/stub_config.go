package config

import "time"

const (
	stubAddrVar          = "STUB_ADDR"
	stubSecretVar        = "STUB_SECRET"
	stubTokenTTLVar      = "STUB_TOKEN_TTL"
	stubAdminEmailVar    = "STUB_ADMIN_EMAIL"
	stubAdminPasswordVar = "STUB_ADMIN_PASSWORD"
)

// StubConfig configures the development backend.
type StubConfig interface {
	GetStubAddr() string
	GetStubSecret() string
	GetStubTokenTTL() time.Duration
	GetStubAdminEmail() string
	GetStubAdminPassword() string
}

type Stub struct {
	file *fileValues
}

var _ StubConfig = Stub{}

func (s Stub) GetStubAddr() string {
	return GetEnv(stubAddrVar, fileOr(s.file, func(f *fileValues) string { return f.Stub.Addr }, ":8080"))
}

func (s Stub) GetStubSecret() string {
	return GetEnv(stubSecretVar, fileOr(s.file, func(f *fileValues) string { return f.Stub.Secret }, "news-admin-dev-secret"))
}

func (s Stub) GetStubTokenTTL() time.Duration {
	raw := GetEnv(stubTokenTTLVar, fileOr(s.file, func(f *fileValues) string { return f.Stub.TokenTTL }, ""))
	return parseDuration(raw, time.Hour)
}

func (s Stub) GetStubAdminEmail() string {
	return GetEnv(stubAdminEmailVar, fileOr(s.file, func(f *fileValues) string { return f.Stub.AdminEmail }, "admin@example.com"))
}

func (s Stub) GetStubAdminPassword() string {
	return GetEnv(stubAdminPasswordVar, fileOr(s.file, func(f *fileValues) string { return f.Stub.AdminPassword }, "admin"))
}
