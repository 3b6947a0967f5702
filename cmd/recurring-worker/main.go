package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gastos/internal/amqp"
	"gastos/internal/analytics"
	"gastos/internal/cli"
	"gastos/internal/ledger"
	applog "gastos/internal/log"
	"gastos/internal/services"
)

func main() {
	boot := cli.Init(applog.ComponentWorker)
	defer boot.Close()
	logger := boot.Logger
	cfg := boot.Config

	logger.Info("Starting recurring-worker")

	store := boot.Store
	expander := services.NewExpander(store)

	// AMQP is optional: without it the worker still expands recurrences,
	// it just cannot deliver bill reminders.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without reminders", "error", err)
		} else {
			amqpClient = client
			defer amqpClient.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	} else {
		logger.Info("AMQP disabled - bill reminders will not be published")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run initial expansion on startup
	if count, err := expander.ExpandCurrentMonth(ctx, time.Now()); err != nil {
		logger.Error("Initial expansion failed", "error", err)
	} else {
		logger.Info("Initial expansion complete", "created", count)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(cfg.ExpandInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case now := <-ticker.C:
				count, err := expander.ExpandCurrentMonth(gctx, now)
				if err != nil {
					logger.Error("Periodic expansion failed", "error", err)
					continue
				}
				if count > 0 {
					logger.Info("Periodic expansion complete", "created", count)
				}
			}
		}
	})

	if amqpClient != nil {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.ReminderInterval)
			defer ticker.Stop()

			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case now := <-ticker.C:
					if err := publishReminders(gctx, store, amqpClient, now, cfg.ReminderHorizon, logger); err != nil {
						logger.Error("Reminder publishing failed", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Recurring-worker shutdown complete")
}

// publishReminders scans for bills due inside the horizon and publishes one
// reminder per bill.
func publishReminders(ctx context.Context, store *ledger.Store, client *amqp.Client, now time.Time, horizonDays int, logger *applog.Logger) error {
	expenses, err := store.Expenses(ctx)
	if err != nil {
		return err
	}

	bills := analytics.UpcomingBills(expenses, now, horizonDays)
	for _, bill := range bills {
		if err := client.PublishBillReminder(ctx, bill); err != nil {
			logger.Error("Failed to publish reminder", "error", err, "expense_id", bill.Expense.ID)
		}
	}
	if len(bills) > 0 {
		logger.Info("Published bill reminders", "count", len(bills), "horizon_days", horizonDays)
	}
	return nil
}
