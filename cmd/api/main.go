package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kquest/marketplace-core/internal/adapter"
	"github.com/kquest/marketplace-core/internal/api/middleware"
	"github.com/kquest/marketplace-core/internal/api/rest"
	"github.com/kquest/marketplace-core/internal/api/server"
	"github.com/kquest/marketplace-core/internal/config"
	"github.com/kquest/marketplace-core/internal/game"
	"github.com/kquest/marketplace-core/internal/gateway"
	"github.com/kquest/marketplace-core/internal/ipfs"
	"github.com/kquest/marketplace-core/internal/logger"
	"github.com/kquest/marketplace-core/internal/metatx"
	"github.com/kquest/marketplace-core/internal/reconcile"
	"github.com/kquest/marketplace-core/internal/settle"
	"github.com/kquest/marketplace-core/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:     cfg.Debug,
		SentryDSN: cfg.SentryDSN,
		Tags: map[string]string{
			"service": "marketplace-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info("Starting Marketplace Core API")

	// Connect to database
	db, err := store.Open(cfg.Database.DSN(),
		cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	dataStore := store.NewPGStore(db)
	logger.Info("Connected to database")

	// Connect to the ledger
	clock := adapter.NewClock()
	ethClient, err := adapter.NewEthClientDialer().Dial(ctx, cfg.Ethereum.RPCURL)
	if err != nil {
		logger.Fatal("Failed to connect to Ethereum RPC", zap.Error(err))
	}
	defer ethClient.Close()
	logger.Info("Connected to Ethereum RPC", zap.Int64("chain_id", cfg.Ethereum.ChainID))

	// Operator signer queue: the single serialization point for all
	// operator-signed writes
	signer, err := gateway.NewSigner(ethClient, clock, cfg.Contracts.OperatorKey,
		cfg.Ethereum.ChainID, cfg.Ethereum.ReceiptPollInterval, cfg.Ethereum.ReceiptTimeout)
	if err != nil {
		logger.Fatal("Failed to create operator signer", zap.Error(err))
	}
	defer signer.Close()
	logger.Info("Operator signer ready", zap.String("operator", signer.Address().Hex()))

	gw, err := gateway.NewGateway(ethClient, signer, cfg.Contracts.AssetNFT, cfg.Contracts.PaymentToken)
	if err != nil {
		logger.Fatal("Failed to create ledger gateway", zap.Error(err))
	}
	allocator := gateway.NewTokenIDAllocator(gw, clock)

	relay, err := metatx.NewRelay(ethClient, signer, cfg.Contracts.Forwarder,
		cfg.Contracts.PaymentToken, cfg.Ethereum.ChainID)
	if err != nil {
		logger.Fatal("Failed to create meta-tx relay", zap.Error(err))
	}

	// Reconciliation with per-address cooldown
	cooldown := reconcile.NewCooldownTracker(clock, cfg.Reconcile.Cooldown, cfg.Reconcile.CooldownRetention)
	reconciler := reconcile.NewService(ethClient, gw, dataStore, cooldown, clock, reconcile.Config{
		AssetContract: cfg.Contracts.AssetNFT,
		DeployBlock:   cfg.Ethereum.DeployBlock,
		ChunkSize:     cfg.Reconcile.BlockChunkSize,
		Workers:       cfg.Reconcile.WorkerPoolSize,
	})

	// Periodic eviction of stale cooldown entries
	go func() {
		ticker := time.NewTicker(cfg.Reconcile.CooldownRetention)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cooldown.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	uploader := ipfs.NewUploader(adapter.NewHTTPClient(30*time.Second), ipfs.Config{
		APIURL:  cfg.IPFS.APIURL,
		JWT:     cfg.IPFS.JWT,
		Gateway: cfg.IPFS.Gateway,
	})

	settler, err := settle.NewOrchestrator(dataStore, gw, relay, uploader, allocator,
		adapter.NewFilesystem(), cfg.Contracts.ShopWallet)
	if err != nil {
		logger.Fatal("Failed to create settlement orchestrator", zap.Error(err))
	}

	gameSvc := game.NewService(dataStore, gw, uploader, allocator, game.NewRoller())

	// Create server config
	serverConfig := server.Config{
		Debug:          cfg.Debug,
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cfg.Server.IdleTimeout) * time.Second,
		AllowedOrigins: cfg.Server.Origins(),
		Auth: middleware.AuthConfig{
			JWTSecret: cfg.Auth.JWTSecret,
		},
	}

	handler := rest.NewHandler(dataStore, gw, relay, reconciler, settler, allocator, gameSvc)
	srv := server.New(serverConfig, handler)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.Error(err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, zap.String("component", "shutdown"))
	}

	logger.Info("Marketplace Core API stopped")
}
