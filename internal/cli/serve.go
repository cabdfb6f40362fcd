package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagscii/internal/server"
	"github.com/matzehuels/dagscii/pkg/cache"
	"github.com/matzehuels/dagscii/pkg/pipeline"
	"github.com/matzehuels/dagscii/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr            string // listen address
	redis           string // redis address for the render cache ("" uses the file cache)
	redisPassword   string
	redisDB         int
	mongo           string // mongodb URI for render persistence ("" uses an in-memory store)
	mongoDatabase   string
	mongoCollection string
	noCache         bool
}

// serveCommand creates the serve command for running the HTTP render API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:            c.Config.Server.Addr,
		redis:           c.Config.Server.Redis,
		redisPassword:   c.Config.Server.RedisPassword,
		redisDB:         c.Config.Server.RedisDB,
		mongo:           c.Config.Server.Mongo,
		mongoDatabase:   c.Config.Server.MongoDatabase,
		mongoCollection: c.Config.Server.MongoCollection,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render API",
		Long: `Serve starts an HTTP server exposing the render pipeline. Rendered
diagrams are cached (Redis when --redis is set, otherwise on disk) and
persisted for retrieval by graph hash (MongoDB when --mongo is set,
otherwise in memory).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", opts.redis, "redis address for the render cache (host:port)")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", opts.redisPassword, "redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", opts.redisDB, "redis database number")
	cmd.Flags().StringVar(&opts.mongo, "mongo", opts.mongo, "mongodb URI for render persistence")
	cmd.Flags().StringVar(&opts.mongoDatabase, "mongo-database", opts.mongoDatabase, "mongodb database name")
	cmd.Flags().StringVar(&opts.mongoCollection, "mongo-collection", opts.mongoCollection, "mongodb collection name")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

// runServe wires the cache and store backends and runs the server until
// the command context is cancelled.
func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()

	renderCache, err := c.serveCache(cmd, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(renderCache, nil, c.Logger)
	defer runner.Close()

	st, err := c.serveStore(cmd, opts)
	if err != nil {
		return err
	}
	// The command context is already cancelled once Serve returns on
	// SIGTERM, so disconnect under a fresh deadline.
	defer closeStore(st)

	return server.New(runner, st, c.Logger).Serve(ctx, opts.addr)
}

// closeStore disconnects the store under its own short timeout.
func closeStore(st store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = st.Close(ctx)
}

func (c *CLI) serveCache(cmd *cobra.Command, opts *serveOpts) (cache.Cache, error) {
	if opts.redis == "" {
		return newCache(opts.noCache)
	}
	rc, err := cache.NewRedisCache(cmd.Context(), opts.redis, opts.redisPassword, opts.redisDB)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	c.Logger.Info("using redis cache", "addr", opts.redis)
	return rc, nil
}

func (c *CLI) serveStore(cmd *cobra.Command, opts *serveOpts) (store.Store, error) {
	if opts.mongo == "" {
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(cmd.Context(), opts.mongo, opts.mongoDatabase, opts.mongoCollection)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	c.Logger.Info("using mongodb store", "database", opts.mongoDatabase, "collection", opts.mongoCollection)
	return ms, nil
}
