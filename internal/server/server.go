// Package server is the portfolio web site: the home page, the HTMX
// contact form endpoints, the theme toggle and the admin dashboard.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/db"
	"github.com/Zachkp/portfolio/internal/events"
	"github.com/Zachkp/portfolio/internal/notify"
	"github.com/Zachkp/portfolio/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options are the dependencies of a Server.
type Options struct {
	Config    *config.Config
	DB        *db.DB
	Submitter contact.Submitter
	// Content defaults to DefaultContent.
	Content *Content
	// Bus defaults to a fresh bus.
	Bus    *events.Bus
	Logger *slog.Logger
	// StaticDir holds /static and /images. Empty serves neither.
	StaticDir string
}

// Server wires the site's routes to per-visitor state.
type Server struct {
	cfg       *config.Config
	engine    *gin.Engine
	submitter contact.Submitter
	archive   *contact.Archive
	themes    *theme.SQLStore
	bus       *events.Bus
	sessions  *sessions
	admin     *admin
	content   Content
	about     template.HTML
	logger    *slog.Logger
}

// New builds the gin engine and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.DB == nil || opts.Submitter == nil {
		return nil, fmt.Errorf("server: config, database and submitter are required")
	}

	s := &Server{
		cfg:       opts.Config,
		submitter: opts.Submitter,
		archive:   contact.NewArchive(opts.DB),
		themes:    theme.NewSQLStore(opts.DB),
		bus:       opts.Bus,
		content:   DefaultContent,
		logger:    opts.Logger,
	}
	if opts.Content != nil {
		s.content = *opts.Content
	}
	if s.bus == nil {
		s.bus = events.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	about, err := s.content.AboutHTML()
	if err != nil {
		return nil, fmt.Errorf("rendering about section: %w", err)
	}
	s.about = about

	if s.admin, err = newAdmin(opts.Config.Admin, opts.DB, s.archive, s.logger); err != nil {
		return nil, err
	}
	s.sessions = newSessions(s.newSession)
	s.subscribe()

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	if gin.IsDebugging() {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery(), securityHeaders(), errorHandler(s.logger))
	r.SetHTMLTemplate(tmpl)

	if opts.StaticDir != "" {
		r.Static("/images", opts.StaticDir+"/images")
		r.Static("/static", opts.StaticDir+"/static")
	}

	s.routes(r)
	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler serving the site.
func (s *Server) Handler() http.Handler { return s.engine }

// CleanupVisitors deletes tracked page views past the retention window.
func (s *Server) CleanupVisitors(ctx context.Context) (int64, error) {
	return s.admin.cleanup(ctx)
}

// Bus is the event bus the per-visitor components publish on.
func (s *Server) Bus() *events.Bus { return s.bus }

func (s *Server) routes(r *gin.Engine) {
	site := r.Group("/")
	site.Use(visitorMiddleware(), s.admin.trackingMiddleware())

	site.GET("/", s.home)
	site.GET("/contact-form", s.contactForm)
	site.POST("/contact/validate/:field", s.validateField)
	site.POST("/contact/clear/:field", s.clearField)
	site.POST("/contact", s.submitContact)
	site.GET("/notifications", s.listNotifications)
	site.DELETE("/notifications/:id", s.closeNotification)
	site.GET("/theme", s.getTheme)
	site.POST("/theme/toggle", s.toggleTheme)
	site.GET("/work-content", s.timeline("Experience", func(c Content) []TimelineItem { return c.Experience }))
	site.GET("/education-content", s.timeline("Education", func(c Content) []TimelineItem { return c.Education }))
	site.GET("/api/counter", s.counterFrames)
	site.GET("/api/splash", s.splashSchedule)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{"title": "Privacy Policy"})
	})
	s.admin.routes(r)
}

func (s *Server) newSession(id string) *session {
	notices := notify.NewCenter(
		notify.WithTimeout(s.cfg.NotificationTimeout),
		notify.WithBus(s.bus, id),
	)
	form := contact.NewForm(s.bus, id)
	return &session{
		id:      id,
		form:    form,
		notices: notices,
		lifecycle: contact.NewLifecycle(form, s.submitter, notices,
			contact.WithEvents(s.bus, id),
			contact.WithLogger(s.logger),
		),
	}
}

// subscribe logs the state changes worth keeping in the request log.
func (s *Server) subscribe() {
	s.bus.Subscribe(events.SubmitStateChanged, func(e events.Event) {
		s.logger.Debug("contact form state changed", "visitor", e.Topic, "state", fmt.Sprint(e.Payload))
	})
	s.bus.Subscribe(events.ThemeChanged, func(e events.Event) {
		s.logger.Debug("theme changed", "visitor", e.Topic, "theme", fmt.Sprint(e.Payload))
	})
}

func parseTemplates() (*template.Template, error) {
	strict := bluemonday.StrictPolicy()
	funcs := template.FuncMap{
		"json": func(v any) (string, error) {
			b, err := json.Marshal(v)
			return string(b), err
		},
		"strip": func(s string) template.HTML {
			return template.HTML(strict.Sanitize(s))
		},
		"initials": initials,
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}
