package sheets

import (
	"context"

	"skybank/internal/core"
)

// Ports for transaction sources.
type (
	// TransactionReader returns every row of a bank export in sheet order.
	TransactionReader interface {
		ReadTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// TransactionImporter stores exported rows and reports how many were new.
	TransactionImporter interface {
		ImportTransactions(ctx context.Context, txs []core.Transaction) (int, error)
	}
)
