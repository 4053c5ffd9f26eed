package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skillet-sh/skillet/pkg/logger"
	"github.com/skillet-sh/skillet/pkg/presenter"
	"github.com/skillet-sh/skillet/pkg/server"
	"github.com/skillet-sh/skillet/pkg/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine API and hot-reload definitions on change",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng, err := loadEngine()
		if err != nil {
			presenter.Error(err, "initial load failed")
			os.Exit(1)
		}
		reload := reloadFunc(eng)

		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		srv, err := server.New(eng, reload, &server.Config{Host: host, Port: port})
		if err != nil {
			presenter.Error(err, "server setup failed")
			os.Exit(1)
		}

		if viper.GetBool("watch") {
			w, err := watcher.New(reload, viper.GetDuration("debounce"))
			if err != nil {
				presenter.Error(err, "watcher setup failed")
				os.Exit(1)
			}
			disc, err := newDiscovery()
			if err != nil {
				presenter.Error(err, "watcher setup failed")
				os.Exit(1)
			}
			for _, root := range disc.Roots() {
				if err := w.Add(root); err != nil {
					presenter.Error(err, "watcher setup failed")
					os.Exit(1)
				}
			}
			go func() {
				if err := w.Run(ctx); err != nil && err != context.Canceled {
					logger.G(ctx).WithError(err).Error("watcher stopped")
				}
			}()
		}

		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.G(ctx).WithError(err).Error("shutdown failed")
			}
		}()

		if err := srv.Start(ctx); err != nil {
			presenter.Error(err, "server failed")
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().String("host", "127.0.0.1", "address to bind")
	serveCmd.Flags().Int("port", 8361, "port to listen on")
	serveCmd.Flags().Bool("watch", true, "reload definitions when files change")
	serveCmd.Flags().Duration("debounce", 500*time.Millisecond, "quiet time before a reload after a file change")
	_ = viper.BindPFlag("watch", serveCmd.Flags().Lookup("watch"))
	_ = viper.BindPFlag("debounce", serveCmd.Flags().Lookup("debounce"))
}
