package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/audit"
	"github.com/talentsift/talentsift/internal/ingestion"
	"github.com/talentsift/talentsift/internal/screening"
	"github.com/talentsift/talentsift/internal/secrets"
	"github.com/talentsift/talentsift/internal/server"
	"github.com/talentsift/talentsift/internal/storage"
)

const (
	defaultAddr = ":8080"

	graphClientSecretEnv = "GRAPH_CLIENT_SECRET"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server and the drive ingestion watcher",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", defaultAddr, "address for the HTTP server to listen on")

	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zl, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	zl.Info("starting the talentsift server", zap.String("version", version))

	auditLog := audit.NewLog(config.AuditFile)
	engine := newScoringEngine(ctx, config, auditLog, zl)
	screener := screening.NewScreener(engine, zl)

	store := openStore(ctx, zl)
	if store != nil {
		defer store.Close()
	}

	graph := newGraphClient(ctx, config.Ingestion, zl)
	startIngestion(ctx, config.Ingestion, graph, store, zl)

	var srv *server.Server
	switch {
	case store != nil && graph != nil:
		srv = server.New(screener, engine, store, graph, zl)
	case store != nil:
		srv = server.New(screener, engine, store, nil, zl)
	default:
		srv = server.New(screener, engine, nil, nil, zl)
	}

	addr := viper.GetString("server.addr")
	if addr == "" {
		addr = defaultAddr
	}

	if err := srv.Run(ctx, addr); err != nil {
		zl.Fatal("http server failed", zap.Error(err))
	}
}

// openStore connects to PostgreSQL when a DSN is configured. Without one the
// server still screens uploads, it just cannot persist or shortlist.
func openStore(ctx context.Context, zl *zap.Logger) *storage.Store {
	dsn := viper.GetString("storage.dsn")
	if dsn == "" {
		zl.Warn("storage is not configured",
			zap.String("hint", "set storage.dsn in the configuration file or the DATABASE_URL environment variable"),
		)
		return nil
	}

	store, err := storage.NewStore(dsn)
	if err != nil {
		zl.Fatal("connecting to storage", zap.Error(err))
	}

	if err := store.EnsureSchema(ctx); err != nil {
		zl.Fatal("preparing storage schema", zap.Error(err))
	}

	return store
}

// newGraphClient builds a Graph client when credentials are configured. It
// backs both the ingestion watcher and the resume download route, so it is
// built independently of whether ingestion itself is enabled.
func newGraphClient(ctx context.Context, cfg *IngestionConfig, zl *zap.Logger) *ingestion.Client {
	if cfg == nil || cfg.TenantID == "" || cfg.ClientID == "" {
		return nil
	}

	clientSecret, err := secrets.Load(secrets.Source{
		Name: "graph client secret",
		File: cfg.ClientSecretFile,
		Env:  graphClientSecretEnv,
	})
	if err != nil {
		zl.Warn("drive access disabled", zap.Error(err))
		return nil
	}

	httpClient := ingestion.OAuthHTTPClient(ctx, cfg.TenantID, cfg.ClientID, clientSecret)
	return ingestion.NewClient(httpClient, zl)
}

func startIngestion(ctx context.Context, cfg *IngestionConfig, graph *ingestion.Client, store *storage.Store, zl *zap.Logger) {
	if cfg == nil || !cfg.Enabled {
		return
	}

	if graph == nil {
		zl.Warn("drive ingestion disabled", zap.String("reason", "graph credentials are not configured"))
		return
	}

	if store == nil {
		zl.Warn("drive ingestion disabled", zap.String("reason", "storage is not configured"))
		return
	}

	if cfg.DriveID == "" || cfg.FolderID == "" {
		zl.Warn("drive ingestion disabled", zap.String("reason", "drive-id and folder-id are required"))
		return
	}

	watcher := ingestion.NewWatcher(graph, store, zl, cfg.DriveID, cfg.FolderID, cfg.Interval)

	go watcher.Run(ctx)
}
