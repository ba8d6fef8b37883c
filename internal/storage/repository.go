package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"skybank/internal/core"
	"skybank/internal/log"
	ports "skybank/internal/sheets"

	_ "modernc.org/sqlite"
)

var (
	_ ports.TransactionReader   = (*SQLiteRepository)(nil)
	_ ports.TransactionImporter = (*SQLiteRepository)(nil)
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	logger  *log.Logger
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	if err := RunMigrations(dbPath, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		logger:  logger,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ImportTransactions implements sheets.TransactionImporter. Rows held from an
// earlier import are skipped, identical rows within txs are all kept, and the
// batch commits atomically.
func (r *SQLiteRepository) ImportTransactions(ctx context.Context, txs []core.Transaction) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	keys := ports.BatchKeys(txs)
	added := 0
	for i, t := range txs {
		ok, err := q.InsertTransaction(ctx, toRow(t, keys[i]))
		if err != nil {
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
		if ok {
			added++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}

	r.logger.InfoContext(ctx, "Transactions imported",
		log.FieldOperation, log.OpImport,
		log.FieldCount, added,
		"skipped", len(txs)-added)
	return added, nil
}

// ReadTransactions implements sheets.TransactionReader, returning rows in
// import order.
func (r *SQLiteRepository) ReadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out, nil
}

// Count returns the number of stored transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func toRow(t core.Transaction, key string) TransactionRow {
	row := TransactionRow{
		RowKey:             key,
		OperationDate:      t.OperationDate,
		PaymentDate:        t.PaymentDate,
		CardNumber:         nullString(t.CardNumber),
		Status:             t.Status,
		OperationAmount:    nullDecimal(t.OperationAmount),
		OperationCurrency:  t.OperationCurrency,
		PaymentAmount:      nullDecimal(t.PaymentAmount),
		PaymentCurrency:    t.PaymentCurrency,
		Cashback:           nullDecimal(t.Cashback),
		Category:           nullString(t.Category),
		Description:        t.Description,
		Bonuses:            nullDecimal(t.Bonuses),
		InvestmentRounding: nullDecimal(t.InvestmentRounding),
		RoundedAmount:      nullDecimal(t.RoundedAmount),
	}
	if t.MCC != nil {
		row.Mcc = sql.NullInt64{Int64: *t.MCC, Valid: true}
	}
	return row
}

func fromRow(row TransactionRow) core.Transaction {
	t := core.Transaction{
		OperationDate:      row.OperationDate,
		PaymentDate:        row.PaymentDate,
		Status:             row.Status,
		OperationAmount:    parseDecimal(row.OperationAmount),
		OperationCurrency:  row.OperationCurrency,
		PaymentAmount:      parseDecimal(row.PaymentAmount),
		PaymentCurrency:    row.PaymentCurrency,
		Cashback:           parseDecimal(row.Cashback),
		Description:        row.Description,
		Bonuses:            parseDecimal(row.Bonuses),
		InvestmentRounding: parseDecimal(row.InvestmentRounding),
		RoundedAmount:      parseDecimal(row.RoundedAmount),
	}
	if row.CardNumber.Valid {
		t.CardNumber = core.StringPtr(row.CardNumber.String)
	}
	if row.Category.Valid {
		t.Category = core.StringPtr(row.Category.String)
	}
	if row.Mcc.Valid {
		mcc := row.Mcc.Int64
		t.MCC = &mcc
	}
	return t
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDecimal(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

func parseDecimal(s sql.NullString) decimal.NullDecimal {
	if !s.Valid {
		return decimal.NullDecimal{}
	}
	return core.ParseAmount(s.String)
}
