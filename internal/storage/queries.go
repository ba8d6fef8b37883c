package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// TransactionRow mirrors a row of the transactions table.
type TransactionRow struct {
	ID                 int64
	RowKey             string
	OperationDate      string
	PaymentDate        string
	CardNumber         sql.NullString
	Status             string
	OperationAmount    sql.NullString
	OperationCurrency  string
	PaymentAmount      sql.NullString
	PaymentCurrency    string
	Cashback           sql.NullString
	Category           sql.NullString
	Mcc                sql.NullInt64
	Description        string
	Bonuses            sql.NullString
	InvestmentRounding sql.NullString
	RoundedAmount      sql.NullString
}

const insertTransaction = `INSERT OR IGNORE INTO transactions (
    row_key, operation_date, payment_date, card_number, status,
    operation_amount, operation_currency, payment_amount, payment_currency,
    cashback, category, mcc, description, bonuses, investment_rounding, rounded_amount
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// InsertTransaction stores row unless its key exists and reports whether a
// row was written.
func (q *Queries) InsertTransaction(ctx context.Context, arg TransactionRow) (bool, error) {
	res, err := q.db.ExecContext(ctx, insertTransaction,
		arg.RowKey,
		arg.OperationDate,
		arg.PaymentDate,
		arg.CardNumber,
		arg.Status,
		arg.OperationAmount,
		arg.OperationCurrency,
		arg.PaymentAmount,
		arg.PaymentCurrency,
		arg.Cashback,
		arg.Category,
		arg.Mcc,
		arg.Description,
		arg.Bonuses,
		arg.InvestmentRounding,
		arg.RoundedAmount,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const listTransactions = `SELECT id, row_key, operation_date, payment_date, card_number, status,
    operation_amount, operation_currency, payment_amount, payment_currency,
    cashback, category, mcc, description, bonuses, investment_rounding, rounded_amount
FROM transactions
ORDER BY id`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(
			&i.ID,
			&i.RowKey,
			&i.OperationDate,
			&i.PaymentDate,
			&i.CardNumber,
			&i.Status,
			&i.OperationAmount,
			&i.OperationCurrency,
			&i.PaymentAmount,
			&i.PaymentCurrency,
			&i.Cashback,
			&i.Category,
			&i.Mcc,
			&i.Description,
			&i.Bonuses,
			&i.InvestmentRounding,
			&i.RoundedAmount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countTransactions = `SELECT COUNT(*) FROM transactions`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}
