package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"restaurant-pos/internal/cart"
	"restaurant-pos/internal/cli"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/discount"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/order"
	"restaurant-pos/internal/receipt"
	"restaurant-pos/internal/store"
	"restaurant-pos/internal/store/jsonfile"
)

// stores groups the persistence contracts behind one backend.
type stores struct {
	catalog      store.CatalogProvider
	promos       store.PromoProvider
	carts        store.CartStore
	registry     store.OrderRegistry
	transactions store.TransactionLog
	counters     store.CounterStore
}

func main() {
	var (
		mode       = flag.String("mode", "", "Run mode (customer, staff)")
		user       = flag.String("user", "", "Username for the session")
		configPath = flag.String("config", "config.yaml", "Path to configuration file")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("pos-" + *mode)
	requestID := logger.GenerateRequestID()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("graceful_shutdown", requestID, "Received shutdown signal")
		cancel()
	}()

	if err := run(ctx, cfg, log, *mode, *user); err != nil {
		log.Error("session_failed", requestID, "Session ended with error", err)
		os.Exit(1)
	}
	log.Info("session_ended", requestID, "Session ended")
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, mode, user string) error {
	requestID := logger.GenerateRequestID()

	st, closeBackend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBackend()

	receipts, err := receipt.NewFileSink(cfg.Storage.ReceiptsDir)
	if err != nil {
		return fmt.Errorf("failed to prepare receipts directory: %w", err)
	}

	carts := cart.NewService(st.carts, log)
	orders := order.NewService(st.registry, st.transactions, st.counters, st.carts, receipts, log)
	discounts := discount.NewService(st.registry, st.promos, log)

	prompt := cli.NewPrompter(os.Stdin, os.Stdout)
	app := cli.New(prompt, os.Stdout, log, st.catalog, st.promos, carts, orders, discounts, st.transactions)

	switch mode {
	case "customer":
		if user == "" {
			user = "Guest_" + logger.GenerateRequestID()[:8]
		}
		log.Info("session_started", requestID, fmt.Sprintf("Customer session for %s", user))
		return app.RunCustomer(ctx, user)
	case "staff":
		if user == "" {
			user = "cashier"
		}
		log.Info("session_started", requestID, fmt.Sprintf("Staff session for %s", user))
		return app.RunStaff(ctx, user)
	default:
		return fmt.Errorf("unknown mode %q (expected customer or staff)", mode)
	}
}

// openBackend selects the persistence backend from configuration and
// returns its stores with a close function.
func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, func(), error) {
	requestID := logger.GenerateRequestID()

	switch strings.ToLower(cfg.Storage.Backend) {
	case config.BackendJSONFile:
		fileStore, err := jsonfile.New(cfg.Storage.DataDir, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open data directory: %w", err)
		}
		log.Info("store_opened", requestID, fmt.Sprintf("Using JSON file storage in %s", cfg.Storage.DataDir))
		return &stores{
			catalog:      fileStore,
			promos:       fileStore,
			carts:        fileStore,
			registry:     fileStore,
			transactions: fileStore,
			counters:     fileStore,
		}, func() {}, nil

	case config.BackendPostgres:
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(ctx, "migrations"); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("db_connected", requestID, "Connected to PostgreSQL database")
		dbStore := database.NewStore(db)
		return &stores{
			catalog:      dbStore,
			promos:       dbStore,
			carts:        dbStore,
			registry:     dbStore,
			transactions: dbStore,
			counters:     dbStore,
		}, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
