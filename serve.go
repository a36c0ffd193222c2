package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"goal-planner/app/config"
	"goal-planner/app/controllers"
	"goal-planner/app/generator"
	"goal-planner/app/logging"
	"goal-planner/app/routes"
	"goal-planner/app/services"
	"goal-planner/app/speech"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Sources: cli.EnvVars("GOALPLANNER_ADDR"),
				Usage:   "Server listen address",
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Sources: cli.EnvVars("GOALPLANNER_OPENAI_API_KEY", "OPENAI_API_KEY"),
				Usage:   "OpenAI API key for generation and speech",
			},
			&cli.StringFlag{
				Name:    "openai-base-url",
				Sources: cli.EnvVars("GOALPLANNER_OPENAI_BASE_URL"),
				Usage:   "OpenAI compatible endpoint",
			},
			&cli.StringSliceFlag{
				Name:    "openai-model",
				Sources: cli.EnvVars("GOALPLANNER_OPENAI_MODELS"),
				Usage:   "Chat models to try in order",
			},
			&cli.StringFlag{
				Name:    "tts-model",
				Sources: cli.EnvVars("GOALPLANNER_TTS_MODEL"),
				Usage:   "Speech model",
			},
			&cli.StringFlag{
				Name:    "voice",
				Sources: cli.EnvVars("GOALPLANNER_VOICE"),
				Usage:   "Speech voice",
			},
			&cli.StringFlag{
				Name:    "anthropic-api-key",
				Sources: cli.EnvVars("GOALPLANNER_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"),
				Usage:   "Anthropic API key for the fallback generator",
			},
			&cli.StringFlag{
				Name:    "anthropic-model",
				Sources: cli.EnvVars("GOALPLANNER_ANTHROPIC_MODEL"),
				Usage:   "Anthropic model",
			},
			&cli.StringFlag{
				Name:    "audio-dir",
				Sources: cli.EnvVars("GOALPLANNER_AUDIO_DIR"),
				Usage:   "Local directory to archive coaching clips",
			},
			&cli.StringFlag{
				Name:    "audio-bucket",
				Sources: cli.EnvVars("GOALPLANNER_AUDIO_BUCKET"),
				Usage:   "Cloud Storage bucket to archive coaching clips",
			},
			&cli.StringFlag{
				Name:    "audio-prefix",
				Sources: cli.EnvVars("GOALPLANNER_AUDIO_PREFIX"),
				Usage:   "Object prefix inside the audio bucket",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return withStore(ctx, cfg, func(ctx context.Context, store *services.Neo4jStore) error {
				if err := store.EnsureSchema(ctx); err != nil {
					return err
				}
				return serve(ctx, cfg, store)
			})
		},
	}
}

func newGenerator(cfg config.Config) (generator.Generator, error) {
	var chain generator.Chain
	if cfg.OpenAI.APIKey != "" {
		g, err := generator.NewOpenAI(cfg.OpenAI.APIKey,
			generator.WithModels(cfg.OpenAI.Models...),
			generator.WithBaseURL(cfg.OpenAI.BaseURL),
		)
		if err != nil {
			return nil, err
		}
		chain = append(chain, g)
	}
	if cfg.Anthropic.APIKey != "" {
		chain = append(chain, generator.NewClaude(cfg.Anthropic.APIKey, generator.WithClaudeModel(cfg.Anthropic.Model)))
	}
	if len(chain) == 1 {
		return chain[0], nil
	}
	return chain, nil
}

func newArchive(ctx context.Context, cfg config.Audio) (speech.Archive, func() error, error) {
	switch {
	case cfg.Bucket != "":
		a, err := speech.NewBucketArchive(ctx, cfg.Bucket, cfg.Prefix)
		if err != nil {
			return nil, nil, err
		}
		return a, a.Close, nil
	case cfg.Dir != "":
		return speech.NewDirArchive(cfg.Dir), func() error { return nil }, nil
	}
	return speech.Nop{}, func() error { return nil }, nil
}

func serve(ctx context.Context, cfg config.Config, store services.PlanStore) error {
	logger := logging.From(ctx)

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	planGen, err := generator.NewPlanGenerator(gen)
	if err != nil {
		return err
	}

	archive, closeArchive, err := newArchive(ctx, cfg.Audio)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeArchive(); err != nil {
			logger.Warn("failed to close audio archive", "error", err)
		}
	}()

	synth := speech.NewOpenAI(cfg.OpenAI.APIKey,
		speech.WithModel(cfg.OpenAI.TTSModel),
		speech.WithVoice(cfg.OpenAI.Voice),
		speech.WithBaseURL(cfg.OpenAI.BaseURL),
	)

	plans := services.NewPlanService(store, planGen)
	coach := services.NewCoachService(plans, planGen, speech.NewSpeaker(synth, archive))

	router := mux.NewRouter()
	routes.RegisterRoutes(router, logger, controllers.NewPlanController(plans), controllers.NewCoachController(coach))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// plan generation and speech can take a while
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  2 * time.Minute,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is running", slog.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return goerr.Wrap(err, "server error", goerr.V("addr", cfg.Addr))
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return goerr.Wrap(err, "failed to shut down server")
	}
	return nil
}
