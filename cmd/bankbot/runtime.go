package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"bankbot/bank"
	contractx "bankbot/bot/contract"
	dialoguex "bankbot/bot/dialogue"
	enginex "bankbot/bot/engine"
	intentx "bankbot/bot/nlu/intent"
	statex "bankbot/bot/state"
	"bankbot/interaction"
	configx "bankbot/pkg/config"
	"bankbot/pkg/groq"
	logx "bankbot/pkg/logger"
	"bankbot/server"
)

// runtime bundles the assembled engine with the collaborators the
// surfaces need around it.
type runtime struct {
	engine    *enginex.Engine
	analytics interaction.Analytics
	responder contractx.FallbackResponder

	log     zerolog.Logger
	closers []func() error
}

func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Warn().Err(err).Msg("close failed")
		}
	}
}

func (rt *runtime) serverOpts() []server.Option {
	if rt.responder == nil {
		return nil
	}
	return []server.Option{server.WithFallbackResponder(rt.responder)}
}

// buildRuntime assembles the full stack. Demo mode swaps Postgres and
// Redis for in-memory twins seeded with the demo ledger; the classifier
// stays remote in both modes.
func buildRuntime(ctx context.Context, demo bool) (*runtime, error) {
	rt := &runtime{log: logx.With("runtime")}
	assembled := false
	defer func() {
		if !assembled {
			rt.Close()
		}
	}()

	clsCfg, err := configx.New[intentx.Config]("CLASSIFIER")
	if err != nil {
		return nil, fmt.Errorf("classifier config: %w", err)
	}
	classifier, err := intentx.NewClient(*clsCfg)
	if err != nil {
		return nil, fmt.Errorf("classifier client: %w", err)
	}

	var (
		gateway  contractx.BankGateway
		recorder contractx.InteractionRecorder
		store    statex.Store
	)

	if demo {
		ledger := bank.NewMemory()
		if err := bank.SeedDemo(ctx, ledger); err != nil {
			return nil, fmt.Errorf("seed demo ledger: %w", err)
		}
		gateway = ledger

		memRecorder := interaction.NewMemoryRecorder()
		recorder = memRecorder
		rt.analytics = memRecorder

		store = statex.NewMemoryStore()
		rt.log.Info().Msg("demo mode: in-memory ledger, history and sessions")
	} else {
		pgCfg, err := configx.New[bank.Config]("PG")
		if err != nil {
			return nil, fmt.Errorf("postgres config: %w", err)
		}
		db, err := bank.Open(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, db.Close)

		ledger, err := bank.NewStore(db)
		if err != nil {
			return nil, err
		}
		if err := ledger.InitSchema(ctx); err != nil {
			return nil, err
		}
		gateway = ledger

		pgRecorder, err := interaction.NewRecorder(db)
		if err != nil {
			return nil, err
		}
		if err := pgRecorder.InitSchema(ctx); err != nil {
			return nil, err
		}
		recorder = pgRecorder
		rt.analytics = pgRecorder

		redisCfg, err := configx.New[statex.RedisConfig]("REDIS")
		if err != nil {
			return nil, fmt.Errorf("redis config: %w", err)
		}
		redisStore, err := statex.NewRedisStore(ctx, *redisCfg)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, redisStore.Close)
		store = redisStore
	}

	// the responder is optional: without credentials deferred turns get
	// the fixed apology instead of a generated answer
	if groqCfg, cfgErr := configx.New[groq.Config]("GROQ"); cfgErr != nil {
		rt.log.Warn().Err(cfgErr).Msg("fallback responder disabled")
	} else if responder, respErr := groq.NewResponder(groqCfg); respErr != nil {
		rt.log.Warn().Err(respErr).Msg("fallback responder disabled")
	} else {
		rt.responder = responder
	}

	manager, err := dialoguex.New(gateway, recorder)
	if err != nil {
		return nil, err
	}

	engine, err := enginex.New(classifier, nil, store, manager, recorder, enginex.Config{TopK: clsCfg.TopK})
	if err != nil {
		return nil, err
	}
	rt.engine = engine

	assembled = true
	return rt, nil
}
