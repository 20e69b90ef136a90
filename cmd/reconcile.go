package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"materials-manager/core/config"
	"materials-manager/core/database"
	"materials-manager/core/logger"
	"materials-manager/core/storage"
	"materials-manager/feature/orders"
	"materials-manager/feature/receiving"
	"materials-manager/feature/receiving/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reconcileOrderID string
	reconcileItemID  string
	buildRequest     bool
)

// reconcileCmd computes the outstanding delivery state for one order line
// from the command line, without starting the server.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile one purchase-order line against the unloading reports",
	Long: `Reconcile one purchase-order line item against the warehouse unloading
reports and the inventory posting ledger.

Prints the outstanding batches and the match diagnostics. With --request it
also builds the receiving-request parameter set.

Examples:
  # Show outstanding batches for a line
  materials-manager reconcile --order PO-77 --item IT1

  # Also build the receiving request
  materials-manager reconcile --order PO-77 --item IT1 --request`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&reconcileOrderID, "order", "", "Purchase order id")
	reconcileCmd.Flags().StringVar(&reconcileItemID, "item", "", "Line item id")
	reconcileCmd.Flags().BoolVar(&buildRequest, "request", false, "Build the receiving request as well")
	_ = reconcileCmd.MarkFlagRequired("order")
	_ = reconcileCmd.MarkFlagRequired("item")

	RootCmd.AddCommand(reconcileCmd)
}

// newReceivingService wires the receiving service for one-shot CLI use.
func newReceivingService(l *zap.Logger) (*receiving.Service, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	reports := receiving.NewReportStore(
		client,
		cfg.Storage.Bucket,
		cfg.Storage.ReportPrefix,
		time.Duration(cfg.Storage.CacheTTLSeconds)*time.Second,
		l,
	)
	ledger := receiving.NewLedgerStore(db)
	ordersService := orders.NewService(db, l)

	return receiving.NewService(ordersService, reports, ledger, reports, cfg.Server.NormalizedPrefix(), l), nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	svc, err := newReceivingService(l)
	if err != nil {
		return err
	}

	view, err := svc.Reconcile(ctx, reconcileOrderID, reconcileItemID)
	if err != nil {
		return err
	}

	l.Info("Reconciliation",
		zap.String("order_number", view.OrderNumber),
		zap.String("line_item", view.LineItemName),
		zap.String("match", view.Classification.Type.String()),
		zap.Int("reports", view.Result.ReportsCount),
		zap.Int("outstanding_batches", len(view.Result.Batches)),
		zap.String("aggregate_quantity", view.Result.AggregateQuantity.String()),
		zap.Bool("nothing_to_receive", view.NothingToReceive),
	)
	for _, batch := range view.Result.Batches {
		l.Info("Outstanding batch",
			zap.String("batch_number", batch.BatchNumber),
			zap.String("quantity", batch.UnloadedQuantity),
			zap.String("expiry", batch.Expiry.String()),
			zap.String("report", batch.SourceReportID),
		)
	}
	if !view.Result.Matched {
		l.Warn(view.Message)
	}

	if buildRequest {
		req, err := svc.BuildReceivingRequest(ctx, reconcileOrderID, reconcileItemID)
		var notReported *reconcile.NotReportedError
		if errors.As(err, &notReported) {
			l.Warn("Receiving blocked", zap.String("reason", notReported.Error()))
			return nil
		}
		if err != nil {
			return err
		}
		l.Info("Receiving request",
			zap.String("order_number", req.OrderNumber),
			zap.String("total_quantity", req.TotalQuantity.String()),
			zap.String("batches", req.BatchesJSON),
			zap.String("expiry_date", req.ExpiryDate),
			zap.Bool("no_expiry_date", req.NoExpiryDate),
		)
	}
	return nil
}
