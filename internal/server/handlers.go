package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/apperror"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/counter"
	"github.com/Zachkp/portfolio/internal/splash"
	"github.com/Zachkp/portfolio/internal/theme"
)

func (s *Server) session(c *gin.Context) *session {
	return s.sessions.get(visitorID(c))
}

// formView renders the visitor's form, or a blank one when the visitor
// has no session yet.
func (s *Server) formView(c *gin.Context) formView {
	if sess, ok := s.sessions.lookup(visitorID(c)); ok {
		return newFormView(sess)
	}
	return blankFormView()
}

func (s *Server) preference(c *gin.Context) (*theme.Preference, error) {
	id := visitorID(c)
	return theme.Load(c.Request.Context(), s.themes.For(id), s.bus, id)
}

func (s *Server) home(c *gin.Context) {
	pref, err := s.preference(c)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	current := pref.Current()

	c.HTML(http.StatusOK, "index.html", pageView{
		Name:     s.content.Name,
		Title:    s.content.Title,
		Theme:    current,
		Toggle:   themeResponse{Theme: current, Icon: current.Icon()},
		About:    s.about,
		Projects: s.content.Projects,
		Stats:    newStatViews(s.content.Stats),
		Metrics:  newStatViews(s.content.Metrics),
		Splash:   splash.NewRotator(nil).Schedule(),
		HideMS:   splash.HideDelay.Milliseconds(),
		Form:     s.formView(c),
		Year:     currentYear(),
	})
}

func (s *Server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", s.formView(c))
}

// validateField runs on blur: the field is checked and its error shown
// or cleared.
func (s *Server) validateField(c *gin.Context) {
	field := contact.ParseField(c.Param("field"))
	sess := s.session(c)
	sess.form.Blur(field, c.PostForm(string(field)))
	c.HTML(http.StatusOK, "field.html", newFieldView(sess.form, field))
}

// clearField runs on input: a shown error is removed, a new one is never
// added.
func (s *Server) clearField(c *gin.Context) {
	field := contact.ParseField(c.Param("field"))
	sess := s.session(c)
	sess.form.Input(field, c.PostForm(string(field)))
	c.HTML(http.StatusOK, "field.html", newFieldView(sess.form, field))
}

func (s *Server) submitContact(c *gin.Context) {
	sess := s.session(c)
	values := make(map[contact.Field]string, len(contact.RequiredFields))
	for _, f := range contact.RequiredFields {
		values[f] = c.PostForm(string(f))
	}

	// The submission runs to completion even if the browser goes away.
	ctx := context.WithoutCancel(c.Request.Context())
	out, err := sess.lifecycle.SubmitValues(ctx, values)
	if errors.Is(err, contact.ErrSubmitInProgress) {
		c.Error(apperror.Conflict("Your message is already being sent.", err))
		return
	}
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}

	s.logger.Info("contact form submitted", "visitor", sess.id, "status", string(out.Status))
	view := newFormView(sess)
	view.OOB = true
	c.HTML(http.StatusOK, "contact.html", view)
}

func (s *Server) listNotifications(c *gin.Context) {
	c.HTML(http.StatusOK, "notifications.html", formView{Notifications: s.formView(c).Notifications})
}

func (s *Server) closeNotification(c *gin.Context) {
	sess, ok := s.sessions.lookup(visitorID(c))
	if !ok || !sess.notices.Close(c.Param("id")) {
		c.Error(apperror.NotFound("Notification not found"))
		return
	}
	c.HTML(http.StatusOK, "notifications.html", formView{Notifications: sess.notices.List()})
}

type themeResponse struct {
	Theme theme.Theme `json:"theme"`
	Icon  string      `json:"icon"`
}

func (s *Server) getTheme(c *gin.Context) {
	pref, err := s.preference(c)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	t := pref.Current()
	c.JSON(http.StatusOK, themeResponse{Theme: t, Icon: t.Icon()})
}

func (s *Server) toggleTheme(c *gin.Context) {
	pref, err := s.preference(c)
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	t, err := pref.Toggle(c.Request.Context())
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	c.Header("HX-Trigger", `{"themeChanged":"`+string(t)+`"}`)
	c.HTML(http.StatusOK, "theme-toggle.html", themeResponse{Theme: t, Icon: t.Icon()})
}

func (s *Server) timeline(heading string, items func(Content) []TimelineItem) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, "timeline.html", gin.H{
			"heading": heading,
			"items":   items(s.content),
		})
	}
}

type counterResponse struct {
	Target  counter.Target `json:"target"`
	FrameMS int64          `json:"frame_ms"`
	Frames  []string       `json:"frames"`
}

func (s *Server) counterFrames(c *gin.Context) {
	t, err := counter.Parse(c.Query("target"))
	if err != nil {
		c.Error(apperror.BadRequest("target must contain a number, e.g. 500+"))
		return
	}
	duration := counter.DefaultDuration
	if raw := c.Query("duration"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 || d > time.Minute {
			c.Error(apperror.BadRequest("duration must be a positive Go duration up to 1m"))
			return
		}
		duration = d
	}
	c.JSON(http.StatusOK, counterResponse{
		Target:  t,
		FrameMS: counter.DefaultFrame.Milliseconds(),
		Frames:  counter.Frames(t, duration, counter.DefaultFrame),
	})
}

type splashResponse struct {
	Steps      []splash.Step `json:"steps"`
	HideMS     int64         `json:"hide_delay_ms"`
	FallbackMS int64         `json:"fallback_ms"`
	FadeOutMS  int64         `json:"fade_out_ms"`
}

func (s *Server) splashSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, splashResponse{
		Steps:      splash.NewRotator(nil).Schedule(),
		HideMS:     splash.HideDelay.Milliseconds(),
		FallbackMS: splash.FallbackHide.Milliseconds(),
		FadeOutMS:  splash.FadeOut.Milliseconds(),
	})
}
