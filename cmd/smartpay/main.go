package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"smartpay/internal/amqp"
	"smartpay/internal/config"
	"smartpay/internal/core"
	"smartpay/internal/services"
	"smartpay/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var (
		inputPath = flag.String("input", "sample_sms.txt", "notification text file to ingest ('-' for stdin)")
		monthStr  = flag.String("month", "", "evaluation month as yyyy-mm (default: current month)")
		todayStr  = flag.String("today", "", "reference date as yyyy-mm-dd (default: today)")
		budgetStr = flag.String("budget", "", "monthly budget total (default: MONTHLY_BUDGET)")
	)
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	text, err := readInput(*inputPath)
	if err != nil {
		logger.Error("Failed to read input", "path", *inputPath, "error", err)
		os.Exit(1)
	}

	window, today, err := resolveDates(*monthStr, *todayStr)
	if err != nil {
		logger.Error("Invalid date flags", "error", err)
		os.Exit(1)
	}

	budgetTotal, err := resolveBudget(*budgetStr, cfg)
	if err != nil {
		logger.Error("Invalid budget", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a broker the periodic worker scan still
	// picks up pending rows.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without sync messages", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	ctx := context.Background()

	ingest := services.NewIngestService(repo, publisher)
	stats, err := ingest.Ingest(ctx, text)
	if err != nil {
		logger.Error("Ingest failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Ingested %d transaction(s) from %d line(s) (%d duplicate, %d unmatched, %d bad amount, %d bad date)\n",
		stats.Inserted, stats.Lines, stats.Duplicates, stats.NoMatch, stats.BadAmount, stats.BadDate)

	allocation := core.SplitMonthlyBudget(budgetTotal)
	reminderSvc := services.NewReminderService(repo)
	reminders, err := reminderSvc.Evaluate(ctx, window, allocation, today, services.DefaultReminderPolicy())
	if err != nil {
		logger.Error("Reminder evaluation failed", "error", err)
		os.Exit(1)
	}

	if len(reminders) == 0 {
		fmt.Println("No reminders.")
		return
	}
	fmt.Printf("Reminders for %04d-%02d:\n", window.Year, window.Month)
	for _, r := range reminders {
		fmt.Printf("  [%s] %s: %s (due %s)\n", r.Priority, r.Kind, r.Message, r.DueDate.ISO())
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

func resolveDates(monthStr, todayStr string) (core.MonthWindow, core.Date, error) {
	now := time.Now()
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if todayStr != "" {
		t, err := time.Parse("2006-01-02", todayStr)
		if err != nil {
			return core.MonthWindow{}, core.Date{}, fmt.Errorf("parse -today: %w", err)
		}
		today = core.NewDate(t.Year(), int(t.Month()), t.Day())
	}

	window := core.MonthWindow{Year: today.Year(), Month: today.Month()}
	if monthStr != "" {
		m, err := time.Parse("2006-01", monthStr)
		if err != nil {
			return core.MonthWindow{}, core.Date{}, fmt.Errorf("parse -month: %w", err)
		}
		window = core.MonthWindow{Year: m.Year(), Month: m.Month()}
	}
	return window, today, nil
}

func resolveBudget(budgetStr string, cfg *config.Config) (core.Money, error) {
	if budgetStr != "" {
		return core.ParseAmount(budgetStr)
	}
	return cfg.MonthlyBudgetMoney()
}
