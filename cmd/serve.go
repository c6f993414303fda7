package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/db"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/server"
)

var (
	servePort      string
	serveStaticDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web site",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger.Init(cfg.LogLevel)
		gin.SetMode(cfg.Mode)
		if cfg.UsingDefaultAdmin() {
			logger.Log.Warn("using default admin credentials, set ADMIN_USERNAME and ADMIN_PASSWORD")
		}

		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		submitter, err := buildSubmitter(cfg, database)
		if err != nil {
			return err
		}

		site, err := server.New(server.Options{
			Config:    cfg,
			DB:        database,
			Submitter: submitter,
			Logger:    logger.Log,
			StaticDir: serveStaticDir,
		})
		if err != nil {
			return err
		}

		go func() {
			if _, err := site.CleanupVisitors(context.Background()); err != nil {
				logger.Log.Error("privacy cleanup failed", "error", err)
			}
		}()

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           site.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Log.Info("server listening", "addr", srv.Addr, "submitter", cfg.Submitter, "archive", cfg.Archive)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error("listen failed", "error", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("shutting down server")

		// Long enough for an in-flight submission to finish.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.SubmitDelay+5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.Error("server forced to shutdown", "error", err)
		}
		logger.Log.Info("server exiting")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides config)")
	serveCmd.Flags().StringVar(&serveStaticDir, "static", ".", "directory holding static/ and images/")
	rootCmd.AddCommand(serveCmd)
}
