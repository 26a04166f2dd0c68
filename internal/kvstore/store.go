// Package kvstore provides the key-value stores used to persist small
// string values, such as the last search term, across restarts.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a string key-value store
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Options selects and configures a backend
type Options struct {
	Backend string

	// file backend
	Path string

	// redis backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open creates the store described by opts
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return NewFileStore(opts.Path)
	case BackendRedis:
		return NewRedisStore(ctx, RedisConfig{
			Address:  opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
			Prefix:   opts.RedisPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
