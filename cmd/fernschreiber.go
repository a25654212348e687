package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ygriega/fernschreiber/internal/config"
	"github.com/ygriega/fernschreiber/internal/db"
	"github.com/ygriega/fernschreiber/internal/events"
	"github.com/ygriega/fernschreiber/internal/notifications"
	"github.com/ygriega/fernschreiber/internal/tdlib"
	"github.com/ygriega/fernschreiber/internal/web"
)

func main() {
	cfg, err := config.InitConfiguration()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var settings tdlib.SettingsStorage
	if cfg.Mongo["uri"] != "" {
		mongoClient, err := db.NewClient(cfg)
		if err != nil {
			log.Fatal(err)
		}
		settings = db.NewSettingsStorage(logger, cfg, mongoClient)
	} else {
		log.Printf("no mongo uri configured, session settings will not persist")
	}

	bus := events.NewBus()

	manager := notifications.NewManager(logger, notifications.NewLogPresenter(logger))
	manager.Subscribe(bus)

	wrapper := tdlib.NewWrapper(cfg, bus, settings)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the web server must be reachable while Start blocks on authorization,
	// the login code and password arrive through it on a first run
	log.Printf("starting web server...")
	go func() {
		if err := web.Run(cfg, wrapper, bus); err != nil {
			log.Fatal(err)
		}
	}()

	me, err := wrapper.Start(ctx)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("authorized as %s %s (%d)", me.FirstName, me.LastName, me.Id)

	wrapper.LoadChats(ctx)

	<-ctx.Done()

	log.Printf("shutting down...")
	wrapper.Close(context.Background())
}
