// Package app wires the service together: config, store, journal, janitor
// and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"chatjournal/internal/janitor"
	"chatjournal/pkg/config"
	"chatjournal/pkg/journal"
	"chatjournal/pkg/logger"
	"chatjournal/pkg/models"
	"chatjournal/pkg/report"
	"chatjournal/pkg/store"
	"chatjournal/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	jrn *journal.Journal
	loc *time.Location

	srv *http.Server
}

// New initializes resources that do not require a running context: the
// store, the journal and validation rules. Call Run to start the janitor
// and the HTTP server and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	validation.SetRules(validation.Rules{
		MaxTextLen:     8192,
		MaxMediaRefLen: 1024,
	})

	loc := time.Local
	if tz := eff.Config.Report.Timezone; tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid report timezone %q: %w", tz, err)
		}
		loc = l
	}

	if err := store.Open(eff.DBPath); err != nil {
		return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
	}

	author := models.Author{
		ID:        eff.Config.Journal.Author.ID,
		Name:      eff.Config.Journal.Author.Name,
		AvatarRef: eff.Config.Journal.Author.AvatarRef,
	}
	if author.ID == "" {
		author.ID = "journal-owner"
	}

	jrn, err := journal.Open(author, eff.Config.Journal.MinRecording.Duration())
	if err != nil {
		return nil, err
	}

	return &App{eff: eff, version: version, commit: commit, buildDate: buildDate, jrn: jrn, loc: loc}, nil
}

// Run starts the janitor and the HTTP server and blocks until ctx is
// canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	stopJanitor, err := janitor.Start(ctx, a.eff.Config.Janitor)
	if err != nil {
		return err
	}
	defer stopJanitor()

	a.printBanner()

	errCh := a.startHTTP()

	select {
	case <-ctx.Done():
		return a.Shutdown()
	case err := <-errCh:
		return err
	}
}

// Shutdown drains the HTTP server and closes the store.
func (a *App) Shutdown() error {
	if a.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.srv.Shutdown(ctx); err != nil {
			logger.Error("http_shutdown_failed", "error", err)
		}
	}
	return store.Close()
}

// newAssembler builds the report assembler from the effective config.
func (a *App) newAssembler() *report.Assembler {
	return &report.Assembler{
		Title:    a.eff.Config.Report.Title,
		Location: a.loc,
		Reader:   report.FSReader{MaxBytes: a.eff.Config.Journal.MaxMediaBytes.Int64()},
	}
}
