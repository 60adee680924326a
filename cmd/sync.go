package main

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/desertthunder/hottest100/internal/catalog"
	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/repositories"
	"github.com/desertthunder/hottest100/internal/services"
	"github.com/desertthunder/hottest100/internal/shared"
	"github.com/desertthunder/hottest100/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Sync loads the song list, groups it by poll and creates one Spotify playlist per group.
//
// Credentials are checked before anything else so a misconfigured run fails without side effects.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	applySyncFlags(config, cmd)

	if err := config.Validate(); err != nil {
		return err
	}

	songs, err := catalog.Load(config.Data.Path)
	if err != nil {
		return err
	}
	r.logger.Info("songs loaded", "path", config.Data.Path, "count", len(songs))

	remote, err := r.remote(ctx, config)
	if err != nil {
		return err
	}

	if cmd.Bool("tui") {
		fileLogger, file, err := shared.NewFileLogger("./tmp/hottest100-tui.log")
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer file.Close()
		if err := shared.SetLogLevel(fileLogger, config.Log.Level); err != nil {
			return err
		}
		r.SetLogger(fileLogger)
	}

	var opts []tasks.SyncOption
	opts = append(opts, tasks.WithChunkSize(config.Sync.ChunkSize))

	finish := func(error) {}
	if config.Database.History {
		recorder, done, err := r.startHistory(config)
		if err != nil {
			r.logger.Warn("run history disabled", "error", err)
		} else {
			opts = append(opts, tasks.WithRecorder(recorder))
			finish = done
		}
	}

	invoker := services.NewInvoker(services.RetryPolicy{
		MaxAttempts: config.Sync.MaxRetries,
		MaxWait:     config.Sync.MaxWait.Duration,
	}, r.logger)
	orchestrator := tasks.NewOrchestrator(tasks.NewSynchronizer(remote, invoker, r.logger, opts...), r.logger)

	run := func(ctx context.Context, progress chan<- tasks.ProgressUpdate) (*tasks.RunResult, error) {
		return orchestrator.Run(ctx, songs, progress)
	}

	var result *tasks.RunResult
	if cmd.Bool("tui") {
		result, err = r.runTUI(ctx, run)
	} else {
		result, err = r.runPlain(ctx, run)
	}
	finish(err)

	r.printSummary(result)
	r.persistToken(remote, config)

	return err
}

// applySyncFlags overrides config values with explicitly set flags.
func applySyncFlags(config *shared.Config, cmd *cli.Command) {
	if cmd.IsSet("data") {
		config.Data.Path = cmd.String("data")
	}
	if cmd.IsSet("max-retries") {
		config.Sync.MaxRetries = int(cmd.Int("max-retries"))
	}
	if cmd.IsSet("max-wait") {
		config.Sync.MaxWait.Duration = cmd.Duration("max-wait")
	}
	if cmd.IsSet("rps") {
		config.Sync.RequestsPerSecond = cmd.Float("rps")
	}
	if cmd.Bool("no-history") {
		config.Database.History = false
	}
}

// remote returns an authenticated service, running the browser flow when no token is cached.
func (r *Runner) remote(ctx context.Context, config *shared.Config) (services.Service, error) {
	svc := r.spotify
	if svc == nil {
		spotifySvc, err := services.NewSpotifyService(
			config.Credentials.Spotify,
			services.WithRequestsPerSecond(config.Sync.RequestsPerSecond),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spotify service: %w", err)
		}
		svc = spotifySvc
	}

	oauthSvc, ok := svc.(services.OAuthService)
	if !ok {
		return svc, nil
	}

	tokenPath := config.Credentials.Spotify.TokenPath
	token, err := shared.LoadToken(tokenPath)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		r.writePlain("→ No cached Spotify token at %s\n", tokenPath)
		if token, err = r.doOAuth(ctx, config, oauthSvc); err != nil {
			return nil, err
		}
		if err := shared.SaveToken(tokenPath, token); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := oauthSvc.Authenticate(ctx, token); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	return oauthSvc, nil
}

// startHistory opens the history database and records the start of a run.
// The returned func marks the run finished and closes the database.
func (r *Runner) startHistory(config *shared.Config) (tasks.Recorder, func(error), error) {
	db, err := shared.OpenHistory(config.Database)
	if err != nil {
		return nil, nil, err
	}

	runs := repositories.NewRunRepository(db)
	run, err := runs.Start(config.Data.Path)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	r.logger.Debug("run started", "id", run.ID, "sequence", run.Sequence)

	done := func(runErr error) {
		if err := runs.Finish(run.ID, runErr); err != nil {
			r.logger.Warn("failed to finish run", "id", run.ID, "error", err)
		}
		db.Close()
	}
	return repositories.NewHistoryRecorder(db, run.ID, r.logger), done, nil
}

// runPlain runs the sync and prints coarse progress lines to the output.
func (r *Runner) runPlain(ctx context.Context, run func(context.Context, chan<- tasks.ProgressUpdate) (*tasks.RunResult, error)) (*tasks.RunResult, error) {
	progress := make(chan tasks.ProgressUpdate, 50)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for update := range progress {
			switch update.Phase {
			case tasks.Grouped, tasks.CreatePlaylist, tasks.AddItems:
				r.writePlain("%s\n", update.Message)
			default:
				r.logger.Debug(update.Message, "phase", update.Phase)
			}
		}
	}()

	result, err := run(ctx, progress)
	close(progress)
	wg.Wait()
	return result, err
}

// printSummary reports counts and every song that was not found.
func (r *Runner) printSummary(result *tasks.RunResult) {
	if result == nil {
		return
	}

	missing := result.Missing()

	r.writePlain("\n")
	r.writePlainHeader("Summary")
	r.writePlain("Playlists created: %d\n", len(result.Playlists))
	r.writePlain("Tracks added:      %d\n", result.TracksAdded())
	r.writePlain("Songs not found:   %d\n", len(missing))

	for _, song := range missing {
		r.writePlain("  • %s\n", missLine(song))
	}
}

func missLine(song models.Song) string {
	return fmt.Sprintf("%s by %s", song.Track, song.Artist)
}

// persistToken saves the possibly refreshed token so the next run skips the browser.
func (r *Runner) persistToken(remote services.Service, config *shared.Config) {
	oauthSvc, ok := remote.(services.OAuthService)
	if !ok {
		return
	}
	token, err := oauthSvc.Token()
	if err != nil {
		r.logger.Warn("could not read refreshed token", "error", err)
		return
	}
	if err := shared.SaveToken(config.Credentials.Spotify.TokenPath, token); err != nil {
		r.logger.Warn("could not save refreshed token", "error", err)
	}
}
