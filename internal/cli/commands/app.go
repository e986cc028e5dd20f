package commands

import (
	"errors"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"splitspecs/internal/cache"
	"splitspecs/internal/config"
	"splitspecs/internal/credential"
	"splitspecs/internal/graphql"
	"splitspecs/internal/state"
	"splitspecs/internal/util"
)

// app holds the client wiring shared by all commands.
type app struct {
	settings   *config.Settings
	logger     *logrus.Logger
	store      credential.Store
	closeStore func() error
	accessor   *credential.Accessor
	loggedIn   *state.Var[bool]
	cache      *cache.InMemoryCache
	client     *graphql.Client
}

func newApp(settings *config.Settings, logOut io.Writer) (*app, error) {
	logger := util.NewLogger(settings.LogLevel, logOut)

	store, closeStore, err := credential.Open(settings)
	if err != nil {
		return nil, err
	}

	accessor := credential.NewAccessor(store, logger)
	loggedIn := state.NewLoginFlag(accessor)
	c := cache.New(cache.Config{
		TypePolicies: cache.NewIsLoggedInPolicies(loggedIn),
		Logger:       logger,
	})
	if settings.PersistCache {
		if err := c.LoadFile(config.CacheSnapshotPath()); err != nil {
			logger.WithError(err).Warn("discarding unreadable cache snapshot")
		}
	}

	client := graphql.NewClient(graphql.Options{
		Endpoint:   settings.Endpoint,
		HTTPClient: &http.Client{Timeout: settings.Timeout()},
		Tokens:     accessor,
		Cache:      c,
		Logger:     logger,
	})

	return &app{
		settings:   settings,
		logger:     logger,
		store:      store,
		closeStore: closeStore,
		accessor:   accessor,
		loggedIn:   loggedIn,
		cache:      c,
		client:     client,
	}, nil
}

// Close persists the cache if enabled and closes the credential store.
func (a *app) Close() error {
	var errs []error
	if a.settings.PersistCache {
		if err := a.cache.SaveFile(config.CacheSnapshotPath()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.closeStore(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
