package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/ykvlv/autopilot-dashboard/internal/activation"
	"github.com/ykvlv/autopilot-dashboard/internal/backend"
	"github.com/ykvlv/autopilot-dashboard/internal/config"
	"github.com/ykvlv/autopilot-dashboard/internal/scheduler"
	"github.com/ykvlv/autopilot-dashboard/internal/session"
	"github.com/ykvlv/autopilot-dashboard/internal/store"
	"github.com/ykvlv/autopilot-dashboard/internal/web"
)

type App struct {
	cfg      config.Config
	log      *zap.Logger
	httpSrv  *http.Server
	web      *web.Server
	sessions *session.Registry
	journal  store.Journal
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	// Sessions get their own cookie jars but share connections.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	sessions := session.NewRegistry(func() (backend.Client, error) {
		return backend.NewHTTPClient(cfg.BackendURL, cfg.BackendTimeout, transport)
	}, rate.Limit(cfg.IntentRate), cfg.IntentBurst)

	return &App{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		journal:  store.NopJournal{},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting autopilot-dashboard",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("backend", a.cfg.BackendURL),
		zap.Bool("frequency_revert", a.cfg.FrequencyRevert),
	)

	// Open SQLite and run migrations when the journal is enabled.
	if a.cfg.JournalPath != "" {
		j, err := store.OpenSQLite(ctx, a.cfg.JournalPath, a.log)
		if err != nil {
			a.log.Error("open sqlite failed", zap.Error(err))
			return err
		}
		a.journal = j
		a.log.Info("journal ready", zap.String("path", a.cfg.JournalPath))
	}
	defer func() { _ = a.journal.Close() }()

	flow := activation.NewFlow(a.log, a.journal, a.cfg.DefaultTZ, a.cfg.FirstPostMinutes())
	srv, err := web.NewServer(web.Options{
		Log:             a.log,
		Sessions:        a.sessions,
		Flow:            flow,
		Journal:         a.journal,
		Theme:           a.cfg.Theme,
		CookieName:      a.cfg.SessionCookie,
		DisplayTZ:       a.cfg.DefaultTZ,
		FrequencyRevert: a.cfg.FrequencyRevert,
		PollWindow:      a.cfg.BackendTimeout + 5*time.Second,
	})
	if err != nil {
		return err
	}
	a.web = srv
	a.httpSrv = &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(a.sessions, a.journal, a.log, a.cfg.SweepInterval, a.cfg.SessionTTL, a.cfg.JournalRetention)
	go sched.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("shutdown signal received")
	case err := <-errCh:
		a.log.Error("http server error", zap.Error(err))
		return err
	}

	// Create a short-lived shutdown context and cancel it immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	// Let accepted intents reach the backend before the journal closes.
	a.web.Wait()
	return nil
}
