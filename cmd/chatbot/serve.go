package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	chatbot "github.com/aarush-luthra/smart-customer-support-chatbot"
	httpAdapter "github.com/aarush-luthra/smart-customer-support-chatbot/internal/adapters/http"
	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/metrics"
	redisAdapter "github.com/aarush-luthra/smart-customer-support-chatbot/pkg/adapters/redis"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the chatbot HTTP server, exposing the message, auto-complete,
reset, order, product and stats endpoints as a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", envOr("CHATBOT_PORT", "8080"), "Port to listen on")
	serveCmd.Flags().String("redis", os.Getenv("REDIS_ADDR"), "Redis address for session persistence (empty: in-memory)")
	serveCmd.Flags().Duration("session-ttl", 24*time.Hour, "Session expiry when Redis is used")
}

func runServe(cmd *cobra.Command) error {
	logger := newLogger(cmd)
	configPath, _ := cmd.Flags().GetString("config")
	port, _ := cmd.Flags().GetString("port")
	redisAddr, _ := cmd.Flags().GetString("redis")
	sessionTTL, _ := cmd.Flags().GetDuration("session-ttl")

	botOpts := []chatbot.Option{
		chatbot.WithConfigPath(configPath),
		chatbot.WithLogger(logger),
		chatbot.WithMetrics(metrics.New()),
	}

	if redisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		store := redisAdapter.NewFromClient(client, redisAdapter.WithTTL(sessionTTL))
		defer store.Close()

		botOpts = append(botOpts,
			chatbot.WithSessionStore(store),
			chatbot.WithLocker(redisAdapter.NewLocker(client, "chatbot:")),
		)
		logger.Info("using redis session store", "addr", redisAddr, "ttl", sessionTTL)
	}

	bot, err := chatbot.New(botOpts...)
	if err != nil {
		return fmt.Errorf("failed to initialize chatbot: %w", err)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: httpAdapter.NewHandler(bot, httpAdapter.WithLogger(logger)),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting chatbot server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("failed to stop server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
