package cmd

import (
	"context"
	"fmt"
	"time"

	"materials-manager/core/config"
	"materials-manager/core/database"
	"materials-manager/core/logger"
	"materials-manager/core/storage"
	"materials-manager/feature/audit"
	"materials-manager/feature/receiving"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// auditCmd runs the cross-store consistency checks once and prints the
// findings.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Check report store and database for dangling references",
	Long: `Runs the consistency checks between the report document store and the
database: orphan posted batches, report entries pointing at unknown order
lines, and reports no order-number query can find.`,
	RunE: runAudit,
}

func init() {
	RootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	reports := receiving.NewReportStore(
		client,
		cfg.Storage.Bucket,
		cfg.Storage.ReportPrefix,
		time.Duration(cfg.Storage.CacheTTLSeconds)*time.Second,
		l,
	)

	report, err := audit.NewService(db, reports, l).Run(ctx)
	if err != nil {
		return err
	}

	for _, orphan := range report.OrphanPostedBatches {
		l.Warn("Orphan posted batch",
			zap.String("line_item_id", orphan.LineItemID),
			zap.String("lot_number", orphan.LotNumber))
	}
	for _, ref := range report.UnknownLineItemRefs {
		l.Warn("Report references unknown line item",
			zap.String("report_id", ref.ReportID),
			zap.String("po_item_id", ref.POItemID),
			zap.String("product_name", ref.ProductName))
	}
	for _, id := range report.ReportsWithoutOrderNumbers {
		l.Warn("Report has no order numbers and is unreachable by queries",
			zap.String("report_id", id))
	}

	if report.Healthy {
		l.Info("All stores consistent",
			zap.Int("reports", report.CheckedReports),
			zap.Int("posted_rows", report.CheckedPostedRows))
	}
	return nil
}
