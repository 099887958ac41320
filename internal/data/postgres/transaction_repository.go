package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ewallet-settlement/internal/domain/transaction"
	"github.com/ewallet-settlement/internal/platform/persistence"
)

// TransactionRepository implements the transaction.Repository interface for
// PostgreSQL. Records are append-only: there is deliberately no UPDATE or
// DELETE statement in this file.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL ledger repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the ledger append shares
// the caller's atomic unit with the balance write.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Append inserts an immutable ledger record after checking its balance
// invariant.
func (r *TransactionRepository) Append(ctx context.Context, record *transaction.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (id, account_id, type, amount, remarks, balance_before, balance_after, counterparty_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		record.ID,
		record.AccountID,
		record.Type,
		record.Amount,
		record.Remarks,
		record.BalanceBefore,
		record.BalanceAfter,
		record.CounterpartyID,
		record.Status,
		record.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append transaction record",
			"transaction_id", record.ID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to append transaction record: %w", err)
	}

	return nil
}

// GetByID retrieves a single ledger record
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Record, error) {
	query := `
		SELECT id, account_id, type, amount, remarks, balance_before, balance_after, counterparty_id, status, created_at
		FROM transactions
		WHERE id = $1
	`

	record, err := r.scanRow(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrRecordNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction record", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return record, nil
}

// GetByAccountID retrieves an account's ledger history, newest first
func (r *TransactionRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Record, error) {
	query := `
		SELECT id, account_id, type, amount, remarks, balance_before, balance_after, counterparty_id, status, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions for account", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions for account: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// List retrieves ledger records matching the typed filter, newest first.
// The filter supports exactly one optional predicate (type) plus paging;
// unknown predicates cannot be expressed.
func (r *TransactionRepository) List(ctx context.Context, filter transaction.Filter) ([]*transaction.Record, error) {
	query := `
		SELECT id, account_id, type, amount, remarks, balance_before, balance_after, counterparty_id, status, created_at
		FROM transactions
		WHERE ($1 = '' OR type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, string(filter.Type), filter.Limit, filter.Offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// Stats aggregates credit/debit counts and totals for dashboards
func (r *TransactionRepository) Stats(ctx context.Context) (*transaction.Stats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE type = 'CREDIT') AS credit_count,
			COUNT(*) FILTER (WHERE type = 'DEBIT') AS debit_count,
			COALESCE(SUM(amount) FILTER (WHERE type = 'CREDIT'), 0) AS total_credit,
			COALESCE(SUM(amount) FILTER (WHERE type = 'DEBIT'), 0) AS total_debit
		FROM transactions
	`

	var stats transaction.Stats
	err := r.querier.QueryRow(ctx, query).Scan(
		&stats.CreditCount,
		&stats.DebitCount,
		&stats.TotalCredit,
		&stats.TotalDebit,
	)
	if err != nil {
		r.logger.Error("Failed to aggregate transaction stats", "error", err)
		return nil, fmt.Errorf("failed to aggregate transaction stats: %w", err)
	}

	return &stats, nil
}

func (r *TransactionRepository) scanRow(row pgx.Row) (*transaction.Record, error) {
	var record transaction.Record
	err := row.Scan(
		&record.ID,
		&record.AccountID,
		&record.Type,
		&record.Amount,
		&record.Remarks,
		&record.BalanceBefore,
		&record.BalanceAfter,
		&record.CounterpartyID,
		&record.Status,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *TransactionRepository) collect(rows pgx.Rows) ([]*transaction.Record, error) {
	var records []*transaction.Record
	for rows.Next() {
		var record transaction.Record
		err := rows.Scan(
			&record.ID,
			&record.AccountID,
			&record.Type,
			&record.Amount,
			&record.Remarks,
			&record.BalanceBefore,
			&record.BalanceAfter,
			&record.CounterpartyID,
			&record.Status,
			&record.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction record", "error", err)
			return nil, fmt.Errorf("failed to scan transaction record: %w", err)
		}
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transaction records", "error", err)
		return nil, fmt.Errorf("error iterating over transaction records: %w", err)
	}

	return records, nil
}
