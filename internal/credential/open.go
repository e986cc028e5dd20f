package credential

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"splitspecs/internal/common"
	"splitspecs/internal/config"
)

// Open returns the Store selected by settings and a close function for it.
func Open(settings *config.Settings) (Store, func() error, error) {
	noop := func() error { return nil }

	switch settings.TokenStore {
	case "", "file":
		return NewFileStore(config.TokenFilePath()), noop, nil
	case "memory":
		return NewMemStore(), noop, nil
	case "sqlite":
		if err := config.EnsureConfigDir(); err != nil {
			return nil, nil, err
		}
		s, err := OpenSQLiteStore(config.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
		return NewRedisStore(client, ""), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", common.ErrInvalidStore, settings.TokenStore)
	}
}
