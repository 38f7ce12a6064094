package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/infrastructure/metrics"
)

// LedgerUseCase orchestrates every balance-affecting operation: it resolves
// or creates the wallet, checks the idempotency guard, applies the balance
// arithmetic, appends the ledger entry, and persists the wallet, all inside
// one transaction per operation.
type LedgerUseCase struct {
	txManager  TransactionManager
	walletRepo WalletRepository
	entryRepo  EntryRepository
	idemRepo   IdempotencyRepository
	outboxRepo OutboxRepository
	retrier    Retrier
	cache      Cache
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. cache and metrics are
// optional; outboxRepo may be a null implementation in tests.
func NewLedgerUseCase(
	txManager TransactionManager,
	walletRepo WalletRepository,
	entryRepo EntryRepository,
	idemRepo IdempotencyRepository,
	outboxRepo OutboxRepository,
	retrier Retrier,
	cache Cache,
	idGen IDGenerator,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:  txManager,
		walletRepo: walletRepo,
		entryRepo:  entryRepo,
		idemRepo:   idemRepo,
		outboxRepo: outboxRepo,
		retrier:    retrier,
		cache:      cache,
		idGen:      idGen,
		metrics:    m,
	}
}

// OperationResult is returned by every mutating operation and replayed
// verbatim on idempotency-key hits.
type OperationResult struct {
	domain.WalletBalance
	EntryID string `json:"entry_id"`

	// Replayed reports that the result came from the idempotency guard and
	// no new mutation was applied. It is not part of the stored response.
	Replayed bool `json:"-"`
}

// ConsumeInput represents input for consuming tokens.
type ConsumeInput struct {
	AccountID      string         `json:"account_id"`
	Amount         int64          `json:"amount"`
	IdempotencyKey string         `json:"idempotency_key"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ReserveInput represents input for reserving tokens for a pending job.
type ReserveInput struct {
	AccountID      string `json:"account_id"`
	Amount         int64  `json:"amount"`
	IdempotencyKey string `json:"idempotency_key"`
	JobID          string `json:"job_id,omitempty"`
}

// ReleaseInput represents input for releasing a reservation.
type ReleaseInput struct {
	AccountID     string `json:"account_id"`
	Amount        int64  `json:"amount"`
	ReservationID string `json:"reservation_id"`
}

// CreditInput represents input for crediting tokens.
type CreditInput struct {
	AccountID       string         `json:"account_id"`
	Amount          int64          `json:"amount"`
	Source          string         `json:"source"`
	IdempotencyKey  string         `json:"idempotency_key"`
	SourceReference string         `json:"source_reference,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// RefundInput represents input for a compensating credit of a prior debit.
type RefundInput struct {
	AccountID       string         `json:"account_id"`
	Amount          int64          `json:"amount"`
	IdempotencyKey  string         `json:"idempotency_key"`
	SourceReference string         `json:"source_reference,omitempty"`
	Description     string         `json:"description,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// AdjustInput represents input for a manual signed correction.
type AdjustInput struct {
	AccountID      string         `json:"account_id"`
	Delta          int64          `json:"delta"`
	IdempotencyKey string         `json:"idempotency_key"`
	Description    string         `json:"description,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// mutationSpec is the shared transaction template for the four (plus two
// supplemental) operations. Each step failing aborts the whole operation
// with no partial effect.
type mutationSpec struct {
	operation   string
	accountID   string
	amount      int64
	key         string
	requestHash string
	entryType   domain.EntryType
	direction   domain.Direction
	source      string
	sourceRef   string
	description string
	metadata    map[string]any
	eventType   string

	// apply validates preconditions against the locked wallet and returns
	// the new balance and reserved amounts.
	apply func(w *domain.Wallet) (newBalance, newReserved int64, err error)

	// check runs extra in-transaction validation before apply, e.g. the
	// outstanding-reservation check for release.
	check func(ctx context.Context, tx Transaction, w *domain.Wallet) error
}

// Consume debits tokens from the available balance.
func (uc *LedgerUseCase) Consume(ctx context.Context, input ConsumeInput) (*OperationResult, error) {
	if err := uc.validateMutation(input.AccountID, input.Amount, input.IdempotencyKey, true, input.Metadata); err != nil {
		return nil, err
	}

	return uc.execute(ctx, mutationSpec{
		operation:   domain.OpConsume,
		accountID:   input.AccountID,
		amount:      input.Amount,
		key:         input.IdempotencyKey,
		requestHash: domain.HashPayload(input),
		entryType:   domain.EntryTypeDebit,
		direction:   domain.DirectionDebit,
		source:      domain.SourceApp,
		description: input.Description,
		metadata:    input.Metadata,
		eventType:   domain.EventTypeTokensConsumed,
		apply: func(w *domain.Wallet) (int64, int64, error) {
			if err := w.ValidateConsume(input.Amount); err != nil {
				return 0, 0, err
			}
			return w.ApplyConsume(input.Amount), w.Reserved, nil
		},
	})
}

// Reserve earmarks tokens from the available balance for a pending job.
// The balance itself is unchanged until the job settles.
func (uc *LedgerUseCase) Reserve(ctx context.Context, input ReserveInput) (*OperationResult, error) {
	if err := uc.validateMutation(input.AccountID, input.Amount, input.IdempotencyKey, true, nil); err != nil {
		return nil, err
	}

	return uc.execute(ctx, mutationSpec{
		operation:   domain.OpReserve,
		accountID:   input.AccountID,
		amount:      input.Amount,
		key:         input.IdempotencyKey,
		requestHash: domain.HashPayload(input),
		entryType:   domain.EntryTypeReserve,
		direction:   domain.DirectionDebit,
		source:      domain.SourceApp,
		sourceRef:   input.JobID,
		eventType:   domain.EventTypeTokensReserved,
		apply: func(w *domain.Wallet) (int64, int64, error) {
			if err := w.ValidateReserve(input.Amount); err != nil {
				return 0, 0, err
			}
			return w.Balance, w.ApplyReserve(input.Amount), nil
		},
	})
}

// Release returns reserved tokens to the available balance. The reservation
// id must have outstanding reserved amount covering the release.
func (uc *LedgerUseCase) Release(ctx context.Context, input ReleaseInput) (*OperationResult, error) {
	if err := uc.validateMutation(input.AccountID, input.Amount, "", false, nil); err != nil {
		return nil, err
	}

	return uc.execute(ctx, mutationSpec{
		operation:   domain.OpRelease,
		accountID:   input.AccountID,
		amount:      input.Amount,
		requestHash: domain.HashPayload(input),
		entryType:   domain.EntryTypeRelease,
		direction:   domain.DirectionCredit,
		source:      domain.SourceApp,
		sourceRef:   input.ReservationID,
		eventType:   domain.EventTypeTokensReleased,
		check: func(ctx context.Context, tx Transaction, w *domain.Wallet) error {
			outstanding, err := uc.entryRepo.OutstandingReserved(ctx, tx, w.ID, input.ReservationID)
			if err != nil {
				return err
			}
			if outstanding < input.Amount {
				return domain.ErrInvalidReservation
			}
			return nil
		},
		apply: func(w *domain.Wallet) (int64, int64, error) {
			if err := w.ValidateRelease(input.Amount); err != nil {
				return 0, 0, err
			}
			return w.Balance, w.ApplyRelease(input.Amount), nil
		},
	})
}

// Credit adds tokens to the balance.
func (uc *LedgerUseCase) Credit(ctx context.Context, input CreditInput) (*OperationResult, error) {
	if err := uc.validateMutation(input.AccountID, input.Amount, input.IdempotencyKey, true, input.Metadata); err != nil {
		return nil, err
	}
	if err := domain.ValidateSource(input.Source); err != nil {
		return nil, err
	}

	return uc.execute(ctx, mutationSpec{
		operation:   domain.OpCredit,
		accountID:   input.AccountID,
		amount:      input.Amount,
		key:         input.IdempotencyKey,
		requestHash: domain.HashPayload(input),
		entryType:   domain.EntryTypeCredit,
		direction:   domain.DirectionCredit,
		source:      input.Source,
		sourceRef:   input.SourceReference,
		metadata:    input.Metadata,
		eventType:   domain.EventTypeTokensCredited,
		apply: func(w *domain.Wallet) (int64, int64, error) {
			if err := w.ValidateCredit(input.Amount); err != nil {
				return 0, 0, err
			}
			return w.ApplyCredit(input.Amount), w.Reserved, nil
		},
	})
}

// Refund is the compensating credit for a committed debit. Committed
// operations are never rolled back; this is the undo path.
func (uc *LedgerUseCase) Refund(ctx context.Context, input RefundInput) (*OperationResult, error) {
	if err := uc.validateMutation(input.AccountID, input.Amount, input.IdempotencyKey, true, input.Metadata); err != nil {
		return nil, err
	}

	return uc.execute(ctx, mutationSpec{
		operation:   domain.OpRefund,
		accountID:   input.AccountID,
		amount:      input.Amount,
		key:         input.IdempotencyKey,
		requestHash: domain.HashPayload(input),
		entryType:   domain.EntryTypeRefund,
		direction:   domain.DirectionCredit,
		source:      domain.SourceSystem,
		sourceRef:   input.SourceReference,
		description: input.Description,
		metadata:    input.Metadata,
		eventType:   domain.EventTypeTokensRefunded,
		apply: func(w *domain.Wallet) (int64, int64, error) {
			if err := w.ValidateCredit(input.Amount); err != nil {
				return 0, 0, err
			}
			return w.ApplyCredit(input.Amount), w.Reserved, nil
		},
	})
}

// Adjust applies a manual signed correction. Negative deltas respect the
// available balance the same way consumption does.
func (uc *LedgerUseCase) Adjust(ctx context.Context, input AdjustInput) (*OperationResult, error) {
	magnitude := input.Delta
	direction := domain.DirectionCredit
	if input.Delta < 0 {
		magnitude = -input.Delta
		direction = domain.DirectionDebit
	}

	if err := uc.validateMutation(input.AccountID, magnitude, input.IdempotencyKey, true, input.Metadata); err != nil {
		return nil, err
	}

	return uc.execute(ctx, mutationSpec{
		operation:   domain.OpAdjust,
		accountID:   input.AccountID,
		amount:      magnitude,
		key:         input.IdempotencyKey,
		requestHash: domain.HashPayload(input),
		entryType:   domain.EntryTypeAdjustment,
		direction:   direction,
		source:      domain.SourceManual,
		description: input.Description,
		metadata:    input.Metadata,
		eventType:   domain.EventTypeTokensAdjusted,
		apply: func(w *domain.Wallet) (int64, int64, error) {
			if direction == domain.DirectionDebit {
				if err := w.ValidateConsume(magnitude); err != nil {
					return 0, 0, err
				}
				return w.ApplyConsume(magnitude), w.Reserved, nil
			}
			if err := w.ValidateCredit(magnitude); err != nil {
				return 0, 0, err
			}
			return w.ApplyCredit(magnitude), w.Reserved, nil
		},
	})
}

// GetBalance returns the balance view for an account. Absent wallets yield
// a zero balance; reads never create a wallet.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (domain.WalletBalance, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return domain.WalletBalance{}, err
	}

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, balanceCacheKey(accountID)); err == nil {
			var view domain.WalletBalance
			if json.Unmarshal([]byte(raw), &view) == nil {
				return view, nil
			}
		}
	}

	wallet, err := uc.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil && !errors.Is(err, domain.ErrWalletNotFound) {
		return domain.WalletBalance{}, err
	}

	view := domain.BalanceView(accountID, wallet)

	if uc.cache != nil {
		if raw, err := json.Marshal(view); err == nil {
			_ = uc.cache.Set(ctx, balanceCacheKey(accountID), string(raw), BalanceCacheTTL)
		}
	}

	return view, nil
}

// HistoryInput represents input for reading ledger history.
type HistoryInput struct {
	AccountID string
	Cursor    string
	Limit     int
}

// HistoryPage is one page of ledger entries, most recent first.
type HistoryPage struct {
	Entries    []*domain.LedgerEntry
	NextCursor string
}

// GetHistory returns ledger entries for an account ordered by creation time
// descending. An account with no wallet or no entries yields an empty page.
func (uc *LedgerUseCase) GetHistory(ctx context.Context, input HistoryInput) (*HistoryPage, error) {
	if err := domain.ValidateAccountID(input.AccountID); err != nil {
		return nil, err
	}

	limit := domain.ValidatePagination(input.Limit)

	wallet, err := uc.walletRepo.GetByAccountID(ctx, input.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			return &HistoryPage{Entries: []*domain.LedgerEntry{}}, nil
		}
		return nil, err
	}

	entries, err := uc.entryRepo.ListByWallet(ctx, wallet.ID, input.Cursor, limit)
	if err != nil {
		return nil, err
	}

	page := &HistoryPage{Entries: entries}
	if len(entries) == limit {
		page.NextCursor = entries[len(entries)-1].ID
	}

	return page, nil
}

func (uc *LedgerUseCase) validateMutation(accountID string, amount int64, key string, keyRequired bool, metadata map[string]any) error {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return err
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	if err := domain.ValidateIdempotencyKey(key, keyRequired); err != nil {
		return err
	}
	return domain.ValidateMetadata(metadata)
}

func (uc *LedgerUseCase) execute(ctx context.Context, spec mutationSpec) (*OperationResult, error) {
	start := time.Now()

	var result *OperationResult

	err := uc.retrier.Retry(ctx, func() error {
		res, err := uc.runOnce(ctx, spec)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		uc.observeError(spec.operation, err)
		return nil, err
	}

	// Invalidate the cached read view after commit; the TTL covers failures.
	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, balanceCacheKey(spec.accountID))
	}

	if uc.metrics != nil {
		uc.metrics.TokenOperations.WithLabelValues(spec.operation).Inc()
		uc.metrics.OperationDuration.WithLabelValues(spec.operation).Observe(time.Since(start).Seconds())
		if result.Replayed {
			uc.metrics.IdempotentReplays.Inc()
		}
	}

	return result, nil
}

// runOnce executes the full transaction template one time. The retrier
// re-invokes it on serialization conflicts; a lost same-key race turns into
// a replay on the next attempt.
func (uc *LedgerUseCase) runOnce(ctx context.Context, spec mutationSpec) (*OperationResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	now := time.Now().UTC()

	if spec.key != "" {
		record, err := uc.idemRepo.Get(txCtx, tx, spec.operation, spec.key)
		if err != nil {
			return nil, err
		}
		if record != nil {
			if !record.Expired(now) {
				if record.RequestHash != spec.requestHash {
					if uc.metrics != nil {
						uc.metrics.IdempotencyConflicts.Inc()
					}
					return nil, domain.ErrIdempotencyKeyConflict
				}

				var replayed OperationResult
				if err := json.Unmarshal(record.Response, &replayed); err != nil {
					return nil, fmt.Errorf("decode stored idempotency response: %w", err)
				}
				replayed.Replayed = true

				return &replayed, nil
			}

			// Expired record: clear it so the insert below does not hit
			// the primary key. The delete and re-insert commit together.
			if err := uc.idemRepo.Delete(txCtx, tx, spec.operation, spec.key); err != nil {
				return nil, err
			}
		}
	}

	wallet, created, err := uc.walletRepo.GetOrCreateForUpdate(txCtx, tx, spec.accountID, uc.idGen.Generate())
	if err != nil {
		return nil, err
	}

	if spec.check != nil {
		if err := spec.check(txCtx, tx, wallet); err != nil {
			return nil, err
		}
	}

	newBalance, newReserved, err := spec.apply(wallet)
	if err != nil {
		return nil, err
	}

	entry := &domain.LedgerEntry{
		ID:              uc.idGen.Generate(),
		WalletID:        wallet.ID,
		Type:            spec.entryType,
		Direction:       spec.direction,
		Amount:          spec.amount,
		BalanceAfter:    newBalance,
		ReservedAfter:   newReserved,
		IdempotencyKey:  spec.key,
		Source:          spec.source,
		SourceReference: spec.sourceRef,
		Description:     spec.description,
		Metadata:        spec.metadata,
		CreatedAt:       now,
	}

	if err := uc.entryRepo.Create(txCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := uc.walletRepo.UpdateBalances(txCtx, tx, wallet.ID, newBalance, newReserved, wallet.Version+1, now); err != nil {
		return nil, err
	}

	result := &OperationResult{
		WalletBalance: domain.WalletBalance{
			AccountID: wallet.AccountID,
			Balance:   newBalance,
			Reserved:  newReserved,
			Available: newBalance - newReserved,
		},
		EntryID: entry.ID,
	}

	if spec.key != "" {
		response, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("encode idempotency response: %w", err)
		}

		record := &domain.IdempotencyRecord{
			Operation:   spec.operation,
			Key:         spec.key,
			RequestHash: spec.requestHash,
			Response:    response,
			CreatedAt:   now,
			ExpiresAt:   now.Add(IdempotencyKeyTTL),
		}
		if err := uc.idemRepo.Create(txCtx, tx, record); err != nil {
			return nil, err
		}
	}

	if uc.outboxRepo != nil {
		if created {
			event := &domain.OutboxEvent{
				ID:            uc.idGen.Generate(),
				AggregateID:   wallet.ID,
				AggregateType: domain.AggregateTypeWallet,
				EventType:     domain.EventTypeWalletCreated,
				Payload: map[string]any{
					"wallet_id":  wallet.ID,
					"account_id": wallet.AccountID,
				},
				CreatedAt: now,
				Published: false,
			}
			if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
				return nil, err
			}
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   wallet.ID,
			AggregateType: domain.AggregateTypeWallet,
			EventType:     spec.eventType,
			Payload: map[string]any{
				"entry_id":   entry.ID,
				"account_id": wallet.AccountID,
				"entry_type": string(spec.entryType),
				"amount":     spec.amount,
				"balance":    newBalance,
				"reserved":   newReserved,
				"source":     spec.source,
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if created && uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	return result, nil
}

func (uc *LedgerUseCase) observeError(operation string, err error) {
	if uc.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		uc.metrics.InsufficientFunds.Inc()
	case errors.Is(err, domain.ErrTransientStorage):
		uc.metrics.TransientFailures.Inc()
	}
	uc.metrics.OperationErrors.WithLabelValues(operation).Inc()
}

func balanceCacheKey(accountID string) string {
	return "balance:" + accountID
}
