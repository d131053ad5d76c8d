package main

import (
	"context"
	"fmt"

	"github.com/nhle/sitehub-notify/internal/classify"
	"github.com/nhle/sitehub-notify/internal/credential"
	"github.com/nhle/sitehub-notify/internal/logx"
	"github.com/nhle/sitehub-notify/internal/model"
	"github.com/nhle/sitehub-notify/internal/notify"
	"github.com/nhle/sitehub-notify/internal/publish"
	"github.com/nhle/sitehub-notify/internal/store"
)

// redisPasswordEnv overrides the keyring entry for the redis password.
const redisPasswordEnv = "SITEHUB_REDIS_PASSWORD"

// app holds the wired dependencies shared by the store-backed commands.
type app struct {
	cfg   *model.AppConfig
	log   logx.Logger
	store *store.SQLiteStore
	svc   *notify.Service
	pub   *publish.RedisPublisher
}

func withApp(ctx context.Context, cfgPath string, fn func(*app) error) error {
	a, err := newApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

func newApp(ctx context.Context, cfgPath string) (*app, error) {
	if cfgPath == "" {
		cfgPath = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	log := logx.New(logx.Config{Level: cfg.Log.Level, Console: cfg.Log.Console})

	engine, err := classify.NewDefault()
	if err != nil {
		return nil, fmt.Errorf("building classifier: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, store: st}
	opts := []notify.Option{
		notify.WithConfig(notify.ConfigFrom(cfg.Engine)),
		notify.WithLogger(log),
	}

	if cfg.Redis.Enabled {
		password, err := credential.Lookup(redisPasswordEnv, credential.RedisPasswordKey)
		if err != nil {
			st.Close()
			return nil, err
		}
		pub, err := publish.NewRedisPublisher(ctx, publish.RedisOptions{
			Addr:          cfg.Redis.Addr,
			Password:      password,
			DB:            cfg.Redis.DB,
			ChannelPrefix: cfg.Redis.ChannelPrefix,
		})
		if err != nil {
			// Delivery still works without fan-out.
			log.Warn("redis unavailable, publishing disabled", logx.Err(err))
		} else {
			a.pub = pub
			opts = append(opts, notify.WithPublisher(pub))
		}
	}

	a.svc = notify.New(engine, st, opts...)
	log.Debug("notifyctl ready",
		logx.String("db", cfg.Storage.Path),
		logx.Bool("redis", a.pub != nil))
	return a, nil
}

func (a *app) close() {
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("closing redis", logx.Err(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", logx.Err(err))
	}
}
