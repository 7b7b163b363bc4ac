package web

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/ykvlv/autopilot-dashboard/assets"
	"github.com/ykvlv/autopilot-dashboard/internal/activation"
	"github.com/ykvlv/autopilot-dashboard/internal/session"
	"github.com/ykvlv/autopilot-dashboard/internal/settings"
	"github.com/ykvlv/autopilot-dashboard/internal/store"
)

// Options configures a Server.
type Options struct {
	Log             *zap.Logger
	Sessions        *session.Registry
	Flow            *activation.Flow
	Journal         store.Journal
	Theme           string // light|dark
	CookieName      string
	DisplayTZ       string
	FrequencyRevert bool

	// PollWindow is how long the page keeps polling after an intent. It
	// should exceed the backend timeout so late reverts are still seen.
	PollWindow time.Duration
}

const defaultPollWindow = 20 * time.Second

// Server is the dashboard's HTTP surface. Browsers only render what it
// sends and post intents back.
type Server struct {
	log             *zap.Logger
	sessions        *session.Registry
	flow            *activation.Flow
	journal         store.Journal
	theme           string
	cookieName      string
	displayTZ       string
	frequencyRevert bool
	pollWindow      time.Duration
	pages           *template.Template
	now             func() time.Time

	bg conc.WaitGroup // in-flight backend writes
}

// NewServer parses the page templates and returns a ready Server.
func NewServer(opts Options) (*Server, error) {
	pages, err := template.ParseFS(assets.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, name := range assets.Pages() {
		if pages.Lookup(name) == nil {
			return nil, fmt.Errorf("missing template %s", name)
		}
	}
	if opts.PollWindow <= 0 {
		opts.PollWindow = defaultPollWindow
	}
	if opts.Journal == nil {
		opts.Journal = store.NopJournal{}
	}
	return &Server{
		log:             opts.Log,
		sessions:        opts.Sessions,
		flow:            opts.Flow,
		journal:         opts.Journal,
		theme:           opts.Theme,
		cookieName:      opts.CookieName,
		displayTZ:       opts.DisplayTZ,
		frequencyRevert: opts.FrequencyRevert,
		pollWindow:      opts.PollWindow,
		pages:           pages,
		now:             time.Now,
	}, nil
}

// dispatch runs an applied intent's backend write without holding up the
// response. Failures are reported by the controller itself.
func (s *Server) dispatch(ctx context.Context, w settings.Write) {
	ctx = context.WithoutCancel(ctx)
	s.bg.Go(func() { _ = w(ctx) })
}

// Wait blocks until every dispatched write has resolved.
func (s *Server) Wait() {
	if r := s.bg.WaitAndRecover(); r != nil {
		s.log.Error("background write panicked", zap.String("panic", r.String()))
	}
}
