package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"

	"anonchat/domain"
	"anonchat/domain/event"
	"anonchat/internal"
	"anonchat/moderation"
	"anonchat/observability"
	"anonchat/polls"
	"anonchat/repositories"
	"anonchat/runtime"
	"anonchat/runtime/workers"
	"anonchat/services"
	"anonchat/sink"
	"anonchat/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting so that
// deferred cleanup executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := observability.LoggerFromString(config.LogLevel)

	// 2. Storage. Everything is in-memory: sessions, mailboxes and reports
	// vanish on restart.
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := repositories.NewRosterIndex(log)
	if err != nil {
		return fmt.Errorf("roster index opening failed: %w", err)
	}
	defer func() { _ = index.Close() }()

	mailboxes := repositories.NewMailboxRepository(db, log)
	reports := repositories.NewReportRepository(db, log)
	classifier, err := moderation.NewDefaultClassifier()
	if err != nil {
		return fmt.Errorf("classifier build failed: %w", err)
	}

	// 3. Chat core
	stats := observability.NewStats(log)
	registry := runtime.NewRegistry(domain.NewGenerator(time.Now().UnixNano()), nil)
	registry.Grant(internal.Identities(config.AdminIDs), internal.Identities(config.ModeratorIDs))

	console := transport.NewConsole(log)
	broadcaster := runtime.NewBroadcaster(log, console, registry, stats)
	notifier := workers.NewNotifier(log, console, registry.Prefs, config.NotifyBuffer, config.NotifyTick)
	engine := polls.NewEngine(log, console)
	flows := runtime.NewFlowStore()

	events := make(chan event.DomainEvent, config.EventBufferSize)
	relay := runtime.NewRelay(
		log, console, registry, broadcaster, flows, engine,
		mailboxes, reports, index, classifier, notifier,
		events, config.ChatCapacity,
	)
	dispatcher := runtime.NewDispatcher(log, relay, config.BufferSize)
	chat := services.NewChatService(dispatcher, registry, reports, stats)

	fanout := workers.NewEventFanout(log, events).
		Add(sink.NewLogSink(log), sink.NewStatsSink(stats))

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Debug surface
	internal.StartDebugServer(log, chat, config.Host, config.Port)

	// 6. Supervision. Run blocks until every worker returns, and the feeder
	// only leaves its stdin read on EOF, so supervision runs off the main
	// goroutine and shutdown is driven by the signal context.
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(dispatcher, fanout, notifier, transport.NewFeeder(log, os.Stdin, chat, console))
	go sup.Run(ctx)

	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	sup.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
