package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stockpos/stockpos/internal/app"
	"github.com/stockpos/stockpos/internal/masterdata/categories"
	"github.com/stockpos/stockpos/internal/masterdata/products"
	"github.com/stockpos/stockpos/internal/masterdata/units"
	"github.com/stockpos/stockpos/internal/platform/db"
	"github.com/stockpos/stockpos/internal/sales"
	"github.com/stockpos/stockpos/internal/stock"
	"github.com/stockpos/stockpos/migrations"
)

// stockAdapter bridges the stock service into the product-unit read view.
type stockAdapter struct {
	service *stock.Service
}

func (a stockAdapter) ProductUnitStock(ctx context.Context, productUnitID int64) (products.StockInfo, error) {
	info, err := a.service.ProductUnitStock(ctx, productUnitID)
	if err != nil {
		return products.StockInfo{}, err
	}
	return products.StockInfo{
		OutOfStock:   info.OutOfStock,
		CostPrice:    info.CostPrice,
		SellingPrice: info.SellingPrice,
		QuantityLeft: info.QuantityLeft,
	}, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.PGDSN, migrations.FS); err != nil {
			logger.Error("run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	unitRepo := units.NewRepository(dbpool)
	unitService := units.NewService(unitRepo)
	unitHandler := units.NewHandler(logger, unitService)

	categoryRepo := categories.NewRepository(dbpool)
	categoryService := categories.NewService(categoryRepo)
	categoryHandler := categories.NewHandler(logger, categoryService)

	stockRepo := stock.NewRepository(dbpool)
	stockService := stock.NewService(stockRepo, stock.NewRedisGuard(redisClient), logger)
	batchHandler := stock.NewHandler(logger, stockService)

	productRepo := products.NewRepository(dbpool)
	productService := products.NewService(productRepo, stockAdapter{service: stockService})
	productHandler := products.NewHandler(logger, productService)

	salesRepo := sales.NewRepository(dbpool)
	salesService := sales.NewService(salesRepo)
	salesHandler := sales.NewHandler(logger, salesService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		UnitHandler:     unitHandler,
		CategoryHandler: categoryHandler,
		ProductHandler:  productHandler,
		BatchHandler:    batchHandler,
		SalesHandler:    salesHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
