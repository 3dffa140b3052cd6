package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "strings"
    "time"

    "github.com/sirupsen/logrus"
    "portalwatch/internal/config"
    "portalwatch/internal/database"
)

// portalwatch-report reads the connectivity logbook and prints or
// exports its contents. It never writes to the ledger.

func main() {
    configFile := flag.String("config", "portalwatch.yaml", "Configuration file path")
    events := flag.Int("events", 20, "Number of recent events to show")
    days := flag.Int("days", 7, "Number of days for the summary")
    report := flag.Bool("report", false, "Print the full connectivity report")
    export := flag.String("export", "", "Export all records to the given text file")
    stats := flag.Bool("stats", false, "Show database statistics")
    flag.Parse()

    cfg, err := config.Load(*configFile)
    if err != nil {
        logrus.Fatalf("Failed to load config: %v", err)
    }

    store, err := database.NewBoltStore(cfg.Database.Path)
    if err != nil {
        logrus.Fatalf("Failed to open database (is the monitor running?): %v", err)
    }
    defer store.Close()

    ctx := context.Background()

    switch {
    case *stats:
        showStats(ctx, store)
    case *report:
        printReport(ctx, store, *days, cfg.Database.Path)
    case *export != "":
        exportRecords(ctx, store, *export, cfg.Database.Path)
    default:
        printRecentEvents(ctx, store, *events)
    }
}

func showStats(ctx context.Context, store database.Store) {
    dbStats, err := store.Stats(ctx)
    if err != nil {
        logrus.Fatalf("Failed to read stats: %v", err)
    }

    fmt.Printf("Events:    %d\n", dbStats.TotalEvents)
    fmt.Printf("Days:      %d\n", dbStats.TotalDays)
    fmt.Printf("Size:      %d bytes\n", dbStats.DatabaseSize)
    if !dbStats.OldestEvent.IsZero() {
        fmt.Printf("Oldest:    %s\n", dbStats.OldestEvent.Format("2006-01-02 15:04:05"))
        fmt.Printf("Newest:    %s\n", dbStats.NewestEvent.Format("2006-01-02 15:04:05"))
    }
}

func printRecentEvents(ctx context.Context, store database.Store, limit int) {
    events, err := store.RecentEvents(ctx, limit)
    if err != nil {
        logrus.Fatalf("Failed to read events: %v", err)
    }

    fmt.Printf("Last %d Connectivity Events:\n", len(events))
    fmt.Println(strings.Repeat("-", 50))
    for _, event := range events {
        fmt.Println(formatEvent(&event))
    }
}

func printReport(ctx context.Context, store database.Store, days int, dbPath string) {
    summaries, err := store.DailySummaries(ctx, days)
    if err != nil {
        logrus.Fatalf("Failed to read summaries: %v", err)
    }
    events, err := store.RecentEvents(ctx, 20)
    if err != nil {
        logrus.Fatalf("Failed to read events: %v", err)
    }

    fmt.Println(strings.Repeat("=", 60))
    fmt.Println("INTERNET CONNECTIVITY LOGBOOK REPORT")
    fmt.Println(strings.Repeat("=", 60))
    fmt.Printf("Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
    fmt.Printf("Database: %s\n\n", dbPath)

    fmt.Printf("DAILY SUMMARY (Last %d Days)\n", days)
    fmt.Println(strings.Repeat("-", 40))
    for _, summary := range summaries {
        fmt.Println(formatSummary(&summary))
        if summary.DisconnectCount > 0 {
            fmt.Printf("  - Disconnects: %d, Total downtime: %ds, Avg recovery: %.1fs\n",
                summary.DisconnectCount, summary.TotalDisconnectSeconds, summary.AvgRecoverySeconds)
        }
    }

    fmt.Println("\nRECENT CONNECTIVITY EVENTS")
    fmt.Println(strings.Repeat("-", 40))
    for _, event := range events {
        fmt.Println(formatEvent(&event))
    }
    fmt.Println("\n" + strings.Repeat("=", 60))
}

func exportRecords(ctx context.Context, store database.Store, filename, dbPath string) {
    events, err := store.ExportAll(ctx)
    if err != nil {
        logrus.Fatalf("Failed to export events: %v", err)
    }
    summaries, err := store.DailySummaries(ctx, 0)
    if err != nil {
        logrus.Fatalf("Failed to read summaries: %v", err)
    }

    f, err := os.Create(filename)
    if err != nil {
        logrus.Fatalf("Failed to create export file: %v", err)
    }
    defer f.Close()

    fmt.Fprintln(f, strings.Repeat("=", 80))
    fmt.Fprintln(f, "INTERNET CONNECTIVITY FULL RECORDS EXPORT")
    fmt.Fprintln(f, strings.Repeat("=", 80))
    fmt.Fprintf(f, "Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
    fmt.Fprintf(f, "Total Events: %d\n", len(events))
    fmt.Fprintf(f, "Database: %s\n", dbPath)
    fmt.Fprintln(f, strings.Repeat("=", 80))

    fmt.Fprintln(f, "\nDAILY SUMMARY")
    fmt.Fprintln(f, strings.Repeat("-", 40))
    // Summaries come newest first; the export reads oldest first
    for i := len(summaries) - 1; i >= 0; i-- {
        fmt.Fprintln(f, formatSummary(&summaries[i]))
    }

    fmt.Fprintln(f, "\nALL CONNECTIVITY EVENTS")
    fmt.Fprintln(f, strings.Repeat("-", 40))
    for _, event := range events {
        fmt.Fprintln(f, formatEvent(&event))
    }

    fmt.Fprintln(f, "\n"+strings.Repeat("=", 80))
    fmt.Fprintln(f, "END OF EXPORT")
    fmt.Fprintln(f, strings.Repeat("=", 80))

    fmt.Printf("All records exported to: %s\n", filename)
}

func formatEvent(event *database.ConnectivityEvent) string {
    ts := event.Timestamp.Format("2006-01-02 15:04:05")
    switch event.Kind {
    case database.EventDisconnected:
        return fmt.Sprintf("[DISCONNECTED] %s | Network: %s | Error: %s", ts, event.NetworkName, event.ErrorDetail)
    case database.EventReconnected:
        return fmt.Sprintf("[RECONNECTED] %s | Network: %s | Downtime: %d seconds", ts, event.NetworkName, event.DurationSeconds)
    default:
        return fmt.Sprintf("[CONNECTED] %s | Network: %s", ts, event.NetworkName)
    }
}

func formatSummary(summary *database.DailySummary) string {
    successRate := 0.0
    if summary.TotalChecks > 0 {
        successRate = float64(summary.SuccessfulChecks) / float64(summary.TotalChecks) * 100
    }
    return fmt.Sprintf("%s: %d/%d checks (%.1f%% success)",
        summary.Date, summary.SuccessfulChecks, summary.TotalChecks, successRate)
}
