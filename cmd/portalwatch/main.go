package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/sirupsen/logrus"
    "portalwatch/internal/config"
    "portalwatch/internal/database"
    "portalwatch/internal/metrics"
    "portalwatch/internal/monitor"
    "portalwatch/internal/network"
    "portalwatch/internal/notify"
    "portalwatch/internal/probe"
    "portalwatch/internal/remediation"
    "portalwatch/internal/web"
)

func main() {
    configFile := flag.String("config", "portalwatch.yaml", "Configuration file path")
    once := flag.Bool("once", false, "Run a single connectivity check and exit")
    version := flag.Bool("version", false, "Show version information")
    flag.Parse()

    if *version {
        fmt.Printf("portalwatch v1.0.0\nBuild: %s\n", getBuildInfo())
        os.Exit(0)
    }

    // Load configuration; malformed config is fatal before the loop starts
    cfg, err := config.Load(*configFile)
    if err != nil {
        logrus.Fatalf("Failed to load config: %v", err)
    }

    setupLogging(cfg.Logging)

    logrus.WithFields(logrus.Fields{
        "config_file": *configFile,
        "interval":    cfg.Monitor.Interval,
        "hotspots":    len(cfg.Hotspots),
    }).Info("Starting portalwatch")

    // Initialize the logbook store
    store, err := database.NewBoltStore(cfg.Database.Path)
    if err != nil {
        logrus.Fatalf("Failed to initialize database: %v", err)
    }
    defer store.Close()

    prober := probe.NewProber(cfg.Monitor.Probe.Endpoints,
        cfg.Monitor.Probe.Timeout, cfg.Monitor.Probe.MinSuccesses)

    opts := monitor.Options{
        Config:     cfg,
        Store:      store,
        Prober:     prober,
        Identity:   &network.NetshProvider{},
        Remediator: remediation.NewChain(remediation.NewCommandRemediator()),
        Metrics:    metrics.NewCollector(),
    }

    if cfg.Notifications.Webhook.Enabled {
        opts.Notifier = notify.NewWebhook(cfg.Notifications.Webhook)
        logrus.Info("Webhook notifications enabled")
    }

    var hub *web.Hub
    if cfg.Web.Enabled {
        hub = web.NewHub()
        opts.Broadcaster = hub
    }

    mon := monitor.New(opts)

    if *once {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
        defer cancel()

        if mon.RunOnce(ctx) {
            logrus.Info("Internet is available")
            return
        }
        logrus.Warn("Internet not available")
        store.Close()
        os.Exit(1)
    }

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    var webServer *web.Server
    if cfg.Web.Enabled {
        webServer = web.NewServer(cfg, store, mon, hub)
        webServer.Start(ctx)
    }

    done := make(chan struct{})
    go func() {
        mon.Run(ctx)
        close(done)
    }()

    // Wait for shutdown signal
    sigChan := make(chan os.Signal, 1)
    signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

    sig := <-sigChan
    logrus.WithField("signal", sig).Info("Received shutdown signal")

    cancel()
    <-done

    if webServer != nil {
        shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer shutdownCancel()
        webServer.Stop(shutdownCtx)
    }

    logrus.Info("Shutdown complete")
}

func setupLogging(cfg config.LoggingConfig) {
    level, err := logrus.ParseLevel(cfg.Level)
    if err != nil {
        level = logrus.InfoLevel
    }
    logrus.SetLevel(level)

    if cfg.Format == "json" {
        logrus.SetFormatter(&logrus.JSONFormatter{})
    } else {
        logrus.SetFormatter(&logrus.TextFormatter{
            FullTimestamp: true,
        })
    }
}

func getBuildInfo() string {
    return "dev-build" // Replaced by build system
}
