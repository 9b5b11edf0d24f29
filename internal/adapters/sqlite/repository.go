package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tradeJournal/internal/domain"
	"tradeJournal/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.TradeRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
	now    func() time.Time
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
	// Now supplies creation timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db"
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// A single connection serializes writers; SQLite would otherwise return SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Info(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger, now: now}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Debug(context.Background(), "Database schema initialized/verified")

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		size REAL NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL DEFAULT NULL,
		notes TEXT DEFAULT NULL,
		trade_date TIMESTAMP DEFAULT NULL,
		tags TEXT DEFAULT NULL, -- JSON array
		sentiment TEXT DEFAULT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_trades_user_created ON trades (user_id, created_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

const insertTrade = `
	INSERT INTO trades (user_id, symbol, direction, size, entry_price, exit_price,
	                    notes, trade_date, tags, sentiment, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateTrades inserts cmds one after another inside a single transaction.
// The returned trades match cmds in length and order. If any insert fails the
// transaction is rolled back and a *ports.PersistenceError names the command.
func (r *Repository) CreateTrades(ctx context.Context, cmds []domain.TradeCommand) ([]domain.Trade, error) {
	if len(cmds) == 0 {
		return []domain.Trade{}, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: begin transaction: %v", ports.ErrPersistence, err)
	}
	defer tx.Rollback() // no-op after Commit

	stmt, err := tx.PrepareContext(ctx, insertTrade)
	if err != nil {
		return nil, fmt.Errorf("%w: prepare insert: %v", ports.ErrPersistence, err)
	}
	defer stmt.Close()

	created := make([]domain.Trade, 0, len(cmds))
	for i, cmd := range cmds {
		trade := domain.Trade{
			UserID:     cmd.UserID,
			Symbol:     cmd.Symbol,
			Direction:  cmd.Direction,
			Size:       cmd.Size,
			EntryPrice: cmd.EntryPrice,
			ExitPrice:  cmd.ExitPrice,
			Notes:      cmd.Notes,
			TradeDate:  cmd.TradeDate,
			Tags:       cmd.Tags,
			Sentiment:  cmd.Sentiment,
			CreatedAt:  r.now().UTC(),
		}

		tags, err := encodeTags(trade.Tags)
		if err != nil {
			return nil, &ports.PersistenceError{Index: i, Symbol: cmd.Symbol, Err: err}
		}

		result, err := stmt.ExecContext(ctx,
			trade.UserID, trade.Symbol, string(trade.Direction), trade.Size, trade.EntryPrice,
			nullPositive(trade.ExitPrice), nullString(trade.Notes), nullTime(trade.TradeDate),
			tags, nullString(trade.Sentiment), trade.CreatedAt)
		if err != nil {
			return nil, &ports.PersistenceError{Index: i, Symbol: cmd.Symbol, Err: err}
		}
		trade.ID, err = result.LastInsertId()
		if err != nil {
			return nil, &ports.PersistenceError{Index: i, Symbol: cmd.Symbol, Err: err}
		}
		created = append(created, trade)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", ports.ErrPersistence, err)
	}
	r.logger.Debug(ctx, "Trades created", map[string]interface{}{"count": len(created), "userID": cmds[0].UserID})
	return created, nil
}

const selectTrade = `
	SELECT id, user_id, symbol, direction, size, entry_price, exit_price,
	       notes, trade_date, tags, sentiment, created_at
	FROM trades`

// ListTradesForUser retrieves a user's trades, most recently created first.
// Rows created in the same instant fall back to insertion order, newest first.
func (r *Repository) ListTradesForUser(ctx context.Context, userID int64) ([]domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, selectTrade+`
	WHERE user_id = ?
	ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list trades for user %d: %v", ports.ErrQueryFailed, userID, err)
	}
	defer rows.Close()

	trades := make([]domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan trade: %v", ports.ErrQueryFailed, err)
		}
		trades = append(trades, *trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating trade rows: %v", ports.ErrQueryFailed, err)
	}
	return trades, nil
}

// FindByID retrieves a trade by ID, scoped to its owner.
// Returns nil, nil if not found.
func (r *Repository) FindByID(ctx context.Context, id, userID int64) (*domain.Trade, error) {
	row := r.db.QueryRowContext(ctx, selectTrade+` WHERE id = ? AND user_id = ?`, id, userID)
	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Trade not found by ID", map[string]interface{}{"tradeID": id, "userID": userID})
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find trade %d: %v", ports.ErrQueryFailed, id, err)
	}
	return trade, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var (
		direction string
		exitPrice sql.NullFloat64
		notes     sql.NullString
		tradeDate sql.NullTime
		tags      sql.NullString
		sentiment sql.NullString
	)
	err := s.Scan(&t.ID, &t.UserID, &t.Symbol, &direction, &t.Size, &t.EntryPrice, &exitPrice,
		&notes, &tradeDate, &tags, &sentiment, &t.CreatedAt)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}

	t.Direction = domain.Direction(direction)
	t.ExitPrice = exitPrice.Float64
	t.Notes = notes.String
	t.Sentiment = sentiment.String
	if tradeDate.Valid {
		td := tradeDate.Time
		t.TradeDate = &td
	}
	if t.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	return t, nil
}

// encodeTags stores tags as a JSON array; nil when there are none.
func encodeTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode tags: %w", err)
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeTags(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil, fmt.Errorf("decode tags %q: %w", raw.String, err)
	}
	return tags, nil
}

func nullPositive(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v > 0}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil || t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
