package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbeckers/floatdeck/internal/server"
	"github.com/tbeckers/floatdeck/pkg/store"
)

// openStore builds the layout store named by the config. The redis and
// mongo backends dial out, so they get the command context for cancellation.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Server.Store {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file", "":
		return store.NewFileStore("")
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown store backend: %s (must be 'memory', 'file', 'redis', or 'mongo')", cfg.Server.Store)
	}
}

// newServeCmd creates the serve command: run the layout REST API.
func newServeCmd(r *run) *cobra.Command {
	var addr, backend string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout REST API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg := r.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if backend != "" {
				cfg.Server.Store = backend
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			srv := server.New(st,
				server.WithLogger(logger),
				server.WithGridOptions(cfg.Grid.GridOptions()...),
			)
			httpSrv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			// Shut down cleanly when the command context is cancelled
			// (SIGINT/SIGTERM from main).
			go func() {
				<-cmd.Context().Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
			}()

			logger.Info("serving layout API", "addr", cfg.Server.Addr, "store", cfg.Server.Store)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&backend, "store", "", "store backend: memory, file, redis, mongo")

	return cmd
}
