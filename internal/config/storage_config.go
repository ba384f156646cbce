package config

import (
	"path/filepath"
	"strconv"
	"time"
)

const (
	storageDriverVar = "STORAGE_DRIVER"
	sqlitePathVar    = "SQLITE_PATH"
	redisAddrVar     = "REDIS_ADDR"
	redisDBVar       = "REDIS_DB"
	sessionTTLVar    = "SESSION_TTL"

	StorageDriverSQLite = "sqlite"
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
)

type StorageConfig interface {
	GetStorageDriver() string
	GetSQLitePath() string
	GetRedisAddr() string
	GetRedisDB() int
	GetSessionIDTTL() time.Duration
}

type Storage struct {
	file *fileValues
}

var _ StorageConfig = Storage{}

func (s Storage) GetStorageDriver() string {
	return GetEnv(storageDriverVar, fileOr(s.file, func(f *fileValues) string { return f.Storage.Driver }, StorageDriverSQLite))
}

func (s Storage) GetSQLitePath() string {
	def := filepath.Join(EnvVars{file: s.file}.GetDataDir(), "storage.db")
	return GetEnv(sqlitePathVar, fileOr(s.file, func(f *fileValues) string { return f.Storage.SQLitePath }, def))
}

func (s Storage) GetRedisAddr() string {
	return GetEnv(redisAddrVar, fileOr(s.file, func(f *fileValues) string { return f.Storage.RedisAddr }, "localhost:6379"))
}

func (s Storage) GetRedisDB() int {
	if v := GetEnv(redisDBVar, ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if s.file != nil {
		return s.file.Storage.RedisDB
	}
	return 0
}

// GetSessionIDTTL is how long the persisted session identifier survives.
func (s Storage) GetSessionIDTTL() time.Duration {
	raw := GetEnv(sessionTTLVar, fileOr(s.file, func(f *fileValues) string { return f.Storage.SessionTTL }, ""))
	return parseDuration(raw, 7*24*time.Hour) // 7 days
}
