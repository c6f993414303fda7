package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/events"
)

func TestHomeRendersPageWithDefaultTheme(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, b.cookies, visitorCookie)

	doc := parse(t, rec)
	assert.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
	assert.Equal(t, 1, doc.Find("#themeToggle i.fa-moon").Length())
	assert.Equal(t, 5, doc.Find("#contactForm .form-group").Length())
	assert.Equal(t, 0, doc.Find("#contactForm .form-group.error").Length())
	assert.Equal(t, contact.LabelIdle, doc.Find(".submit-btn .btn-text").Text())
	assert.Contains(t, doc.Find(".about-text strong").Text(), "detection engineering")

	var frames []string
	raw := doc.Find(".stat h3").First().AttrOr("data-frames", "")
	require.NoError(t, json.Unmarshal([]byte(raw), &frames))
	require.NotEmpty(t, frames)
	assert.Equal(t, "500+", frames[len(frames)-1])
}

func TestVisitorCookieIsReused(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	b.get("/")
	first := b.cookies[visitorCookie].Value
	rec := b.get("/")
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, first, b.cookies[visitorCookie].Value)
	assert.Equal(t, 0, srv.sessions.len())

	b.post("/contact/validate/name", url.Values{"name": {"Ada"}})
	b.post("/contact/validate/email", url.Values{"email": {"ada@example.com"}})
	assert.Equal(t, 1, srv.sessions.len())
}

func TestReadOnlyPagesDoNotCreateSessions(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, path := range []string{"/", "/contact-form", "/notifications"} {
		b := newBrowser(t, srv.Handler())
		rec := b.get(path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, http.StatusNotFound, b.do(http.MethodDelete, "/notifications/unknown", nil).Code)
	}
	assert.Equal(t, 0, srv.sessions.len())

	doc := parse(t, newBrowser(t, srv.Handler()).get("/contact-form"))
	assert.Equal(t, 5, doc.Find(".form-group").Length())
	assert.Equal(t, contact.LabelIdle, doc.Find(".submit-btn .btn-text").Text())
}

func TestBlurShowsErrorAndInputClearsIt(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	doc := parse(t, b.post("/contact/validate/email", url.Values{"email": {"not-an-email"}}))
	group := doc.Find("#group-email")
	assert.True(t, group.HasClass("error"))
	assert.Equal(t, contact.MsgEmailInvalid, group.Find(".error-message.show").Text())
	assert.Equal(t, "not-an-email", group.Find("input").AttrOr("value", ""))

	doc = parse(t, b.post("/contact/clear/email", url.Values{"email": {"not-an-email-still"}}))
	group = doc.Find("#group-email")
	assert.False(t, group.HasClass("error"))
	assert.Equal(t, 0, group.Find(".error-message.show").Length())
	assert.Equal(t, "not-an-email-still", group.Find("input").AttrOr("value", ""))

	// Typing never adds an error, even for an invalid value.
	doc = parse(t, b.post("/contact/clear/name", url.Values{"name": {"A"}}))
	assert.False(t, doc.Find("#group-name").HasClass("error"))
}

func TestBlurClearsErrorOnceValid(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	b.post("/contact/validate/name", url.Values{"name": {" "}})
	doc := parse(t, b.post("/contact/validate/name", url.Values{"name": {"Al"}}))
	assert.False(t, doc.Find("#group-name").HasClass("error"))
}

func TestSubmitInvalidShowsEveryError(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	rec := b.post("/contact", url.Values{"name": {"Ada"}})
	require.Equal(t, http.StatusOK, rec.Code)
	doc := parse(t, rec)

	assert.Equal(t, 4, doc.Find("#contactForm .form-group.error").Length())
	assert.False(t, doc.Find("#group-name").HasClass("error"))
	assert.Equal(t, contact.MsgPrivacyRequired, doc.Find("#group-privacy .error-message").Text())
	assert.Equal(t, "Ada", doc.Find("input[name=name]").AttrOr("value", ""))

	notes := doc.Find("#notifications .notification")
	require.Equal(t, 1, notes.Length())
	assert.True(t, notes.HasClass("notification-error"))
	assert.Contains(t, notes.Text(), contact.NoticeInvalid)
	assert.Equal(t, 1, notes.Find("i.fa-exclamation-circle").Length())
}

func TestSubmitValidClearsFormAndArchives(t *testing.T) {
	var archive *contact.Archive
	sub := contact.SubmitterFunc(func(ctx context.Context, s contact.Submission) error {
		return (&contact.ArchiveSubmitter{Archive: archive, Next: contact.NewDelaySubmitter(time.Millisecond)}).Submit(ctx, s)
	})
	srv, database := newTestServer(t, sub)
	archive = contact.NewArchive(database)
	b := newBrowser(t, srv.Handler())

	doc := parse(t, b.post("/contact", validForm()))

	notes := doc.Find("#notifications .notification-success")
	require.Equal(t, 1, notes.Length())
	assert.Contains(t, notes.Text(), contact.NoticeSent)
	assert.Equal(t, "", doc.Find("input[name=name]").AttrOr("value", "missing"))
	assert.Equal(t, 0, doc.Find("input[name=privacy][checked]").Length())
	assert.Equal(t, contact.LabelIdle, doc.Find(".submit-btn .btn-text").Text())
	_, disabled := doc.Find(".submit-btn").Attr("disabled")
	assert.False(t, disabled)

	msgs, err := archive.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Ada Lovelace", msgs[0].Name)
	assert.Equal(t, contact.DeliverySent, msgs[0].Status)
}

func TestSubmitFailureKeepsInput(t *testing.T) {
	sub := contact.SubmitterFunc(func(context.Context, contact.Submission) error {
		return errors.New("smtp: connection refused")
	})
	srv, _ := newTestServer(t, sub)
	b := newBrowser(t, srv.Handler())

	doc := parse(t, b.post("/contact", validForm()))

	notes := doc.Find("#notifications .notification-error")
	require.Equal(t, 1, notes.Length())
	assert.Contains(t, notes.Text(), contact.NoticeFailed)
	assert.Equal(t, "Ada Lovelace", doc.Find("input[name=name]").AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find("input[name=privacy][checked]").Length())
	assert.Equal(t, "Job Opportunity", doc.Find("select[name=subject] option[selected]").AttrOr("value", ""))
}

func TestSubmitWhileSubmittingIsRejected(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	sub := contact.SubmitterFunc(func(context.Context, contact.Submission) error {
		once.Do(func() { close(started) })
		<-release
		return nil
	})
	srv, _ := newTestServer(t, sub)
	b := newBrowser(t, srv.Handler())
	b.get("/")

	first := make(chan int, 1)
	go func() { first <- b.post("/contact", validForm()).Code }()
	<-started

	second := validForm()
	second.Set("name", "Mallory")
	rec := b.post("/contact", second)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)

	// Other requests from the same visitor are still served.
	doc := parse(t, b.get("/contact-form"))
	assert.Equal(t, contact.LabelSending, doc.Find(".submit-btn .btn-text").Text())
	assert.Equal(t, "Ada Lovelace", doc.Find("input#name").AttrOr("value", ""))
	_, disabled := doc.Find(".submit-btn").Attr("disabled")
	assert.True(t, disabled)

	close(release)
	assert.Equal(t, http.StatusOK, <-first)
	doc = parse(t, b.get("/contact-form"))
	assert.Equal(t, contact.LabelIdle, doc.Find(".submit-btn .btn-text").Text())
}

func TestSessionsAreIsolatedPerVisitor(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	alice := newBrowser(t, srv.Handler())
	bob := newBrowser(t, srv.Handler())
	alice.get("/")
	bob.get("/")

	alice.post("/contact/validate/email", url.Values{"email": {"nope"}})

	doc := parse(t, bob.get("/contact-form"))
	assert.False(t, doc.Find("#group-email").HasClass("error"))
	doc = parse(t, alice.get("/contact-form"))
	assert.True(t, doc.Find("#group-email").HasClass("error"))
}

func TestCloseNotification(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	doc := parse(t, b.post("/contact", url.Values{}))
	id := strings.TrimPrefix(doc.Find("#notifications .notification").AttrOr("id", ""), "notification-")
	require.NotEmpty(t, id)

	rec := b.do(http.MethodDelete, "/notifications/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, parse(t, rec).Find("#notification-"+id).HasClass("leaving"))

	assert.Equal(t, http.StatusNotFound, b.do(http.MethodDelete, "/notifications/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, b.do(http.MethodDelete, "/notifications/unknown", nil).Code)
}

func TestNotificationsEachSubmitAddsOne(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	b.post("/contact", url.Values{})
	b.post("/contact", url.Values{})

	doc := parse(t, b.get("/notifications"))
	assert.Equal(t, 2, doc.Find(".notification-error").Length())
}

func TestThemeTogglePersistsPerVisitor(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	var changes []events.Event
	srv.Bus().Subscribe(events.ThemeChanged, func(e events.Event) { changes = append(changes, e) })

	b := newBrowser(t, srv.Handler())
	b.get("/")

	doc := parse(t, b.post("/theme/toggle", nil))
	assert.Equal(t, "dark", doc.Find("#themeToggle").AttrOr("data-theme", ""))
	assert.Equal(t, 1, doc.Find("#themeToggle i.fa-sun").Length())

	assert.Equal(t, "dark", parse(t, b.get("/")).Find("html").AttrOr("data-theme", ""))

	var got themeResponse
	require.NoError(t, json.Unmarshal(b.get("/theme").Body.Bytes(), &got))
	assert.Equal(t, themeResponse{Theme: "dark", Icon: "fa-sun"}, got)

	other := newBrowser(t, srv.Handler())
	assert.Equal(t, "light", parse(t, other.get("/")).Find("html").AttrOr("data-theme", ""))

	doc = parse(t, b.post("/theme/toggle", nil))
	assert.Equal(t, "light", doc.Find("#themeToggle").AttrOr("data-theme", ""))
	require.Len(t, changes, 2)
	assert.Equal(t, b.cookies[visitorCookie].Value, changes[0].Topic)
}

func TestCounterAPI(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	rec := b.get("/api/counter?target=" + url.QueryEscape("99%") + "&duration=160ms")
	require.Equal(t, http.StatusOK, rec.Code)
	var got counterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 99, got.Target.Value)
	assert.Equal(t, "%", got.Target.Suffix)
	require.Len(t, got.Frames, 10)
	assert.Equal(t, "9%", got.Frames[0])
	assert.Equal(t, "99%", got.Frames[9])

	assert.Equal(t, http.StatusBadRequest, b.get("/api/counter?target=abc").Code)
	assert.Equal(t, http.StatusBadRequest, b.get("/api/counter?target=5&duration=forever").Code)
}

func TestSplashAPI(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	var got splashResponse
	require.NoError(t, json.Unmarshal(b.get("/api/splash").Body.Bytes(), &got))
	require.Len(t, got.Steps, 4)
	assert.Equal(t, int64(2400), got.Steps[3].AtMS)
	assert.Equal(t, int64(1000), got.HideMS)
	assert.Equal(t, int64(5000), got.FallbackMS)
}

func TestTimelineFragments(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	b := newBrowser(t, srv.Handler())

	doc := parse(t, b.get("/work-content"))
	assert.Equal(t, len(DefaultContent.Experience), doc.Find(".timeline-item").Length())
	doc = parse(t, b.get("/education-content"))
	assert.Equal(t, "Western Governors University", doc.Find(".timeline-org").First().Text())
}

func TestPrivacyPage(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := newBrowser(t, srv.Handler()).get("/privacy")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Privacy Policy", parse(t, rec).Find("h1").Text())
}
