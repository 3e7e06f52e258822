package main

import (
	"context"
	"time"

	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/application"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/authority"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/cache"
	bidhttp "github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/infra/http"
	bidws "github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/infra/websocket"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/ratelimit"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/bidding/receipt"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/config"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/db"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/db/migrations"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/httpserver"
	"github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/logger"
	sharedws "github.com/davlindh/zeppelin-cloud-flight-sub007/internal/shared/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting bid gateway...")
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// authority connection: remote over HTTP, or the in-process reference
	// acceptor for local development
	var acceptor authority.Acceptor
	switch cfg.AuthorityMode {
	case "http":
		log.Info("Using remote authority", zap.String("baseURL", cfg.AuthorityBaseURL))
		acceptor = authority.NewHTTPAcceptor(cfg.AuthorityBaseURL)
	default:
		log.Info("Using in-process authority (local mode)")
		mem := authority.NewMemoryAcceptor()
		// a demo auction so local mode answers immediately
		mem.CreateAuction("demo",
			decimal.NewFromInt(100),
			decimal.NewFromInt(5),
			time.Now().Add(24*time.Hour),
		)
		acceptor = mem
	}

	// receipt persistence
	var receipts receipt.Store
	if cfg.ReceiptBackend == "postgres" {
		log.Info("Running database migrations...")
		if err := migrations.RunMigrations(); err != nil {
			log.Fatal("Database migration failed", zap.Error(err))
		}
		pool, err := db.GetPostgresDBPool(ctx)
		if err != nil {
			log.Fatal("Database connection failed", zap.Error(err))
		}
		defer pool.Close()
		receipts = receipt.NewPostgresStore(pool)
	} else {
		receipts = receipt.NewMemoryStore()
	}

	// snapshot cache and reconciler
	snapshots := cache.NewStore(acceptor.FetchSnapshot)
	reconciler := cache.NewReconciler(snapshots)

	// websocket hub pushing reconciled snapshots to viewers
	hub := sharedws.NewHub()
	bidws.NewSnapshotBroadcaster(hub, snapshots)
	go hub.Run(ctx)

	// the submission pipeline and its service facade
	submitUC := application.NewSubmitBidUseCase(
		ratelimit.New(cfg.BidMaxAttempts, cfg.BidWindow),
		reconciler,
		acceptor,
		receipts,
		application.LogNotifier{},
		cfg.AuthorityTimeout,
	)
	service := application.NewBidService(submitUC, snapshots, receipts)

	server := httpserver.NewServer()
	bidhttp.NewBidHandler(service).Register(server.App())
	bidws.RegisterRoutes(server.App(), hub)

	if err := server.Start(cfg.ListenAddr); err != nil {
		log.Fatal("HTTP server failed", zap.Error(err))
	}
}
