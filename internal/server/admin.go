package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/apperror"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/db"
)

const (
	adminCookie     = "admin_token"
	visitorRetained = "-12 months"
)

// VisitorMetric is one tracked page view. The IP is stored hashed.
type VisitorMetric struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// AdminStats is the dashboard summary.
type AdminStats struct {
	TotalVisitors    int64                     `json:"total_visitors"`
	UniqueVisitors   int64                     `json:"unique_visitors"`
	VisitorsToday    int64                     `json:"visitors_today"`
	VisitorsThisWeek int64                     `json:"visitors_this_week"`
	Messages         map[string]int64          `json:"messages"`
	RecentMessages   []contact.ArchivedMessage `json:"recent_messages"`
	RecentVisitors   []VisitorMetric           `json:"recent_visitors"`
}

type admin struct {
	creds   config.AdminConfig
	token   string
	salt    string
	db      *db.DB
	archive *contact.Archive
	logger  *slog.Logger
}

func newAdmin(creds config.AdminConfig, database *db.DB, archive *contact.Archive, logger *slog.Logger) (*admin, error) {
	token, err := randomHex()
	if err != nil {
		return nil, fmt.Errorf("generating admin token: %w", err)
	}
	salt, err := randomHex()
	if err != nil {
		return nil, fmt.Errorf("generating hashing salt: %w", err)
	}
	return &admin{
		creds:   creds,
		token:   token,
		salt:    salt,
		db:      database,
		archive: archive,
		logger:  logger,
	}, nil
}

func randomHex() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// hashIP is stable per IP for the life of the process.
func (a *admin) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// trackingMiddleware records page views, skipping assets, the admin area,
// HTMX fragment requests and visitors sending Do Not Track.
func (a *admin) trackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			c.GetHeader("HX-Request") == "true" ||
			c.GetHeader("DNT") == "1" ||
			strings.HasPrefix(path, "/api/") {
			c.Next()
			return
		}

		go a.track(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

// sqliteTime is the layout SQLite's date functions parse, so visitor rows
// compare correctly against DATE('now') and datetime('now', ...).
const sqliteTime = "2006-01-02 15:04:05"

func (a *admin) track(ip, userAgent, path string) {
	_, err := a.db.Exec(`INSERT INTO visitors (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		a.hashIP(ip), userAgent, path, time.Now().UTC().Format(sqliteTime))
	if err != nil {
		a.logger.Error("recording visitor", "error", err)
	}
}

// cleanup deletes visitor rows older than the retention window.
func (a *admin) cleanup(ctx context.Context) (int64, error) {
	res, err := a.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < datetime('now', ?)`, visitorRetained)
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitor data: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		a.logger.Info("privacy cleanup removed old visitor records", "count", n)
	}
	return n, nil
}

func (a *admin) stats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	counts := []struct {
		dst   *int64
		query string
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')`},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')`},
	}
	for _, q := range counts {
		if err := a.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("loading visitor counts: %w", err)
		}
	}

	var err error
	if stats.Messages, err = a.archive.Counts(ctx); err != nil {
		return nil, err
	}
	if stats.RecentMessages, err = a.archive.List(ctx, 10); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = a.visitors(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *admin) visitors(ctx context.Context, limit int) ([]VisitorMetric, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (a *admin) validCredentials(username, password string) bool {
	user := subtle.ConstantTimeCompare([]byte(username), []byte(a.creds.Username))
	pass := subtle.ConstantTimeCompare([]byte(password), []byte(a.creds.Password))
	return user&pass == 1
}

func (a *admin) routes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if !a.validCredentials(c.PostForm("username"), c.PostForm("password")) {
			a.logger.Warn("failed admin login", "client", a.hashIP(c.ClientIP()))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", false, true)
		a.logger.Info("admin login", "client", a.hashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(a.authMiddleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			a.logger.Error("loading admin stats", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			c.Error(apperror.Internal(err))
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/messages", func(c *gin.Context) {
		msgs, err := a.archive.List(c.Request.Context(), 200)
		if err != nil {
			a.logger.Error("listing messages", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load messages"})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": msgs})
	})

	g.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := a.archive.Delete(c.Request.Context(), id)
		if errors.Is(err, contact.ErrNotFound) {
			c.Error(apperror.NotFound("Message not found"))
			return
		}
		if err != nil {
			c.Error(apperror.Internal(err))
			return
		}
		a.logger.Info("message deleted", "id", id, "client", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	g.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.visitors(c.Request.Context(), 200)
		if err != nil {
			a.logger.Error("listing visitors", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := a.cleanup(c.Request.Context())
		if err != nil {
			c.Error(apperror.Internal(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.stats(c.Request.Context())
		if err != nil {
			c.Error(apperror.Internal(err))
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", "client", a.hashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}
