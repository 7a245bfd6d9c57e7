package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/openmallhq/openmall/config"
	"github.com/openmallhq/openmall/internal/adminapi"
	"github.com/openmallhq/openmall/internal/app"
	"github.com/openmallhq/openmall/internal/notify"
	"github.com/openmallhq/openmall/internal/storeapi"
	"github.com/openmallhq/openmall/internal/webserver"
)

var (
	cfile   = flag.String("c", "/etc/openmall.yml", "config file")
	initdb  = flag.Bool("initdb", false, "drop and recreate the database schema, then exit")
	showver = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showver {
		fmt.Println("openmall", version)
		return
	}

	cfg := config.LoadConfig(*cfile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	notify.Init(application)
	defer notify.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	application.StartBackgroundJobs(ctx)

	server := webserver.Init(application)
	adminapi.InitRouter()
	storeapi.InitRouter()

	go func() {
		if err := server.Start(); err != nil {
			zap.L().Error("webserver stopped", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	zap.L().Info("shutting down")
	server.Shutdown()
}
