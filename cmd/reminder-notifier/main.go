package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"gastos/internal/amqp"
	"gastos/internal/cli"
	applog "gastos/internal/log"
)

// reminder-notifier drains the bill reminder queue and surfaces each
// reminder through the log. Swapping the handler for push or e-mail delivery
// needs no changes on the publishing side.
func main() {
	boot := cli.Init(applog.ComponentNotifier)
	defer boot.Close()
	logger := boot.Logger
	cfg := boot.Config

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the notifier")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting reminder-notifier", "queue", cfg.AMQPQueue)

	err = client.ConsumeBillReminders(ctx, func(msg *amqp.BillReminderMessage) error {
		logger.Info("Bill reminder",
			"summary", msg.Summary(),
			"expense_id", msg.ExpenseID,
			"due_date", msg.DueDate.Format("2006-01-02"),
			"urgent", msg.Urgent)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Notifier stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Reminder-notifier shutdown complete")
}
