package integration

import (
	"context"
	"testing"
	"time"

	"github.com/clariohq/tokenledger/internal/adapter/repository/postgres"
	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/usecase"
	"github.com/clariohq/tokenledger/tests/testutil"
)

func TestOutboxEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()

	ledgerUC, _ := newLedgerStack(testDB)
	outboxRepo := postgres.NewOutboxRepository(testDB.Pool)

	t.Run("mutations write outbox events in the same transaction", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		accountID := "acct-" + testutil.GenerateID()

		if _, err := ledgerUC.Credit(ctx, usecase.CreditInput{
			AccountID:      accountID,
			Amount:         250,
			Source:         domain.SourceStripe,
			IdempotencyKey: "outbox-credit",
		}); err != nil {
			t.Fatalf("credit failed: %v", err)
		}

		events, err := outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to read outbox: %v", err)
		}

		// Lazy wallet creation emits its own event alongside the credit
		types := map[string]bool{}
		for _, ev := range events {
			types[ev.EventType] = true
			if ev.AggregateType != domain.AggregateTypeWallet {
				t.Errorf("unexpected aggregate type %q", ev.AggregateType)
			}
		}
		if !types[domain.EventTypeWalletCreated] || !types[domain.EventTypeTokensCredited] {
			t.Errorf("expected wallet.created and token.credited events, got %v", types)
		}
	})

	t.Run("replays do not duplicate events", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		accountID := "acct-" + testutil.GenerateID()
		testDB.CreateTestWallet(ctx, accountID, 100, 0)

		input := usecase.ConsumeInput{
			AccountID:      accountID,
			Amount:         10,
			IdempotencyKey: "outbox-replay",
		}

		if _, err := ledgerUC.Consume(ctx, input); err != nil {
			t.Fatalf("first consume failed: %v", err)
		}
		if _, err := ledgerUC.Consume(ctx, input); err != nil {
			t.Fatalf("replay failed: %v", err)
		}

		events, err := outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to read outbox: %v", err)
		}

		consumed := 0
		for _, ev := range events {
			if ev.EventType == domain.EventTypeTokensConsumed {
				consumed++
			}
		}
		if consumed != 1 {
			t.Errorf("expected 1 token.consumed event, got %d", consumed)
		}
	})

	t.Run("published events leave the unpublished set", func(t *testing.T) {
		testDB.TruncateAll(ctx)
		accountID := "acct-" + testutil.GenerateID()
		testDB.CreateTestWallet(ctx, accountID, 100, 0)

		if _, err := ledgerUC.Consume(ctx, usecase.ConsumeInput{
			AccountID:      accountID,
			Amount:         10,
			IdempotencyKey: "outbox-publish",
		}); err != nil {
			t.Fatalf("consume failed: %v", err)
		}

		events, err := outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to read outbox: %v", err)
		}
		if len(events) == 0 {
			t.Fatalf("expected unpublished events")
		}

		for _, ev := range events {
			if err := outboxRepo.MarkPublished(ctx, ev.ID, time.Now().UTC()); err != nil {
				t.Fatalf("failed to mark published: %v", err)
			}
		}

		remaining, err := outboxRepo.GetUnpublished(ctx, 10)
		if err != nil {
			t.Fatalf("failed to re-read outbox: %v", err)
		}
		if len(remaining) != 0 {
			t.Errorf("expected empty unpublished set, got %d events", len(remaining))
		}
	})
}
