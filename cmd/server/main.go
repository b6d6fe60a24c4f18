package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	server "github.com/abisalde/accounts-service/cmd"
	"github.com/abisalde/accounts-service/internal/utils"
	"go.uber.org/zap"
)

func main() {

	appCfgLoader, appCfg, err := server.InitConfig()
	if err != nil {
		log.Fatalf("❌ Failed to initialize configuration: %v", err)
	}
	defer zap.L().Sync()

	db, redisCache, err := server.SetupDatabase(appCfgLoader)
	if err != nil {
		zap.L().Fatal("failed to setup database", zap.Error(err))
	}
	defer db.Close()
	defer redisCache.Close()

	services, err := server.SetupServices(db, redisCache, appCfgLoader)
	if err != nil {
		zap.L().Fatal("failed to setup services", zap.Error(err))
	}

	table, err := server.BuildRoutes(appCfgLoader, services.OAuth)
	if err != nil {
		zap.L().Fatal("failed to build route table", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go services.Worker.Start(ctx)

	app := server.SetupFiberApp(appCfgLoader, db, redisCache, table)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			zap.L().Error("shutdown failed", zap.Error(err))
		}
	}()

	portHost := utils.GetListenAddress(appCfg.HTTPPort, appCfg.AppEnv)

	zap.L().Info("accounts service starting",
		zap.String("env", appCfg.AppEnv),
		zap.String("listen", portHost),
	)
	if err := app.Listen(portHost); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
