package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tradeJournal/internal/analytics"
	"tradeJournal/internal/domain"
	"tradeJournal/internal/idgen"
	"tradeJournal/internal/ingest"
	"tradeJournal/internal/ports"
)

const tracerName = "tradeJournal/internal/app"

// startSpan looks up the global tracer on each call.
func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// JournalService orchestrates trade ingestion, lookups and dashboard reporting.
type JournalService struct {
	logger ports.Logger
	repo   ports.TradeRepository
}

// NewJournalService creates a new application service instance.
func NewJournalService(logger ports.Logger, repo ports.TradeRepository) (*JournalService, error) {
	if logger == nil || repo == nil {
		return nil, fmt.Errorf("missing required dependencies for JournalService")
	}
	return &JournalService{logger: logger, repo: repo}, nil
}

// ImportResult reports what an upload produced.
type ImportResult struct {
	BatchID  string           `json:"batchId"`
	Created  int              `json:"created"`
	Records  []domain.Trade   `json:"records"` // Same order as the accepted rows
	Skipped  []ingest.Outcome `json:"skipped,omitempty"`
	Warnings []string         `json:"warnings,omitempty"`
}

// Message is the user-facing summary of a successful import.
func (r *ImportResult) Message() string {
	return fmt.Sprintf("Successfully created %d trades.", r.Created)
}

// ImportTrades parses the CSV in file and stores every valid row for userID.
// A nil file yields ports.ErrNoFile. Header and empty-batch failures abort
// before anything is written; a storage failure writes nothing.
func (s *JournalService) ImportTrades(ctx context.Context, userID int64, file io.Reader) (*ImportResult, error) {
	ctx, span := startSpan(ctx, "JournalService.ImportTrades", attribute.Int64("user.id", userID))
	defer span.End()

	if file == nil {
		failSpan(span, ports.ErrNoFile)
		return nil, ports.ErrNoFile
	}

	batchID := idgen.New()
	span.SetAttributes(attribute.String("import.batch_id", batchID))
	fields := map[string]interface{}{"batchID": batchID, "userID": userID}

	batch, err := ingest.Parse(file, userID)
	if batch != nil {
		s.logSkipped(ctx, batchID, batch)
		span.SetAttributes(attribute.Int("import.skipped", len(batch.Skipped)))
	}
	if err != nil {
		failSpan(span, err)
		s.logger.Warn(ctx, "Trade import aborted", withField(fields, "reason", err.Error()))
		return nil, err
	}

	records, err := s.repo.CreateTrades(ctx, batch.Commands)
	if err != nil {
		logFields := withField(fields, "commands", len(batch.Commands))
		var perr *ports.PersistenceError
		if errors.As(err, &perr) {
			logFields["failedIndex"] = perr.Index
			logFields["failedSymbol"] = perr.Symbol
		}
		failSpan(span, err)
		s.logger.Error(ctx, err, "Failed to persist imported trades", logFields)
		return nil, err
	}

	span.SetAttributes(attribute.Int("import.created", len(records)))
	s.logger.Info(ctx, "Trades imported", withField(withField(fields, "created", len(records)), "skipped", len(batch.Skipped)))
	return &ImportResult{
		BatchID:  batchID,
		Created:  len(records),
		Records:  records,
		Skipped:  batch.Skipped,
		Warnings: batch.Warnings,
	}, nil
}

func (s *JournalService) logSkipped(ctx context.Context, batchID string, batch *ingest.Batch) {
	for _, o := range batch.Skipped {
		s.logger.Warn(ctx, "Skipping invalid trade row", map[string]interface{}{
			"batchID": batchID,
			"line":    o.Line,
			"reason":  o.Reason,
		})
	}
	for _, w := range batch.Warnings {
		s.logger.Warn(ctx, "CSV read warning", map[string]interface{}{"batchID": batchID, "warning": w})
	}
}

// CreateTrade validates and stores a single manually entered trade.
func (s *JournalService) CreateTrade(ctx context.Context, cmd domain.TradeCommand) (*domain.Trade, error) {
	cmd, err := ingest.ValidateCommand(cmd)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateTrades(ctx, []domain.TradeCommand{cmd})
	if err != nil {
		s.logger.Error(ctx, err, "Failed to create trade", map[string]interface{}{"symbol": cmd.Symbol, "userID": cmd.UserID})
		return nil, err
	}
	if len(created) != 1 {
		return nil, fmt.Errorf("%w: expected 1 created trade, got %d", ports.ErrPersistence, len(created))
	}
	s.logger.Info(ctx, "Trade created", map[string]interface{}{"tradeID": created[0].ID, "symbol": cmd.Symbol})
	return &created[0], nil
}

// ListTrades returns the user's trades, most recently created first.
func (s *JournalService) ListTrades(ctx context.Context, userID int64) ([]domain.Trade, error) {
	trades, err := s.repo.ListTradesForUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to list trades", map[string]interface{}{"userID": userID})
		return nil, err
	}
	return trades, nil
}

// GetTrade returns one of the user's trades or ports.ErrNotFound.
func (s *JournalService) GetTrade(ctx context.Context, id, userID int64) (*domain.Trade, error) {
	trade, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to fetch trade", map[string]interface{}{"tradeID": id})
		return nil, err
	}
	if trade == nil {
		return nil, fmt.Errorf("%w: trade %d", ports.ErrNotFound, id)
	}
	return trade, nil
}

// Dashboard computes the user's performance summary and recent trades.
func (s *JournalService) Dashboard(ctx context.Context, userID int64) (*analytics.Dashboard, error) {
	ctx, span := startSpan(ctx, "JournalService.Dashboard", attribute.Int64("user.id", userID))
	defer span.End()

	trades, err := s.ListTrades(ctx, userID)
	if err != nil {
		failSpan(span, err)
		return nil, err
	}
	d := analytics.BuildDashboard(trades)
	span.SetAttributes(
		attribute.Int("dashboard.total_trades", d.Metrics.TotalTrades),
		attribute.Int("dashboard.completed_trades", d.Metrics.CompletedTrades),
	)
	s.logger.Debug(ctx, "Dashboard computed", map[string]interface{}{
		"userID":          userID,
		"totalTrades":     d.Metrics.TotalTrades,
		"completedTrades": d.Metrics.CompletedTrades,
	})
	return &d, nil
}

func withField(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}
