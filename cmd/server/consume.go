package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/storefront/internal/config"
	"github.com/iliyamo/storefront/internal/logging"
	"github.com/iliyamo/storefront/internal/queue"
)

func newConsumeOrdersCmd() *cobra.Command {
	var logDir string
	cmd := &cobra.Command{
		Use:   "consume-orders",
		Short: "Append every order.placed event to <log-dir>/orders.log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logDir == "" {
				logDir = cfg.OrderLogDir
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.WithField("dir", logDir).Info("order consumer started")
			err = queue.StartOrderConsumer(ctx, cfg.RabbitURL, logDir, logging.Component(log, "order-consumer"))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory for orders.log (overrides ORDER_LOG_DIR)")
	return cmd
}
