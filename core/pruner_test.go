package core

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func pruneFixture(t *testing.T, now time.Time) (*memoryTokenStore, *memoryAuthorizationStore) {
	t.Helper()
	old := now.Add(-48 * time.Hour)
	recent := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	revokedAuthorization, _ := NewAuthorization("auth-revoked")
	_ = revokedAuthorization.SetStatus(AuthorizationStatusRevoked)
	revokedAuthorization.SetCreationDate(&old)
	validAuthorization, _ := NewAuthorization("auth-valid")
	_ = validAuthorization.SetStatus(AuthorizationStatusValid)
	validAuthorization.SetCreationDate(&old)
	authorizations := newMemoryAuthorizationStore(revokedAuthorization, validAuthorization)

	var tokens []*Token
	for i := range 5 {
		token, _ := NewToken(fmt.Sprintf("t-%02d", i))
		token.SetCreationDate(&old)
		token.SetExpirationDate(&future)
		_ = token.SetStatus(TokenStatusRedeemed)
		tokens = append(tokens, token)
	}
	live, _ := NewToken("t-live")
	live.SetCreationDate(&old)
	live.SetExpirationDate(&future)
	_ = live.SetStatus(TokenStatusValid)
	_ = live.SetAuthorizationID(stringPtr("auth-valid"))
	orphaned, _ := NewToken("t-orphan")
	orphaned.SetCreationDate(&old)
	_ = orphaned.SetStatus(TokenStatusValid)
	_ = orphaned.SetAuthorizationID(stringPtr("auth-revoked"))
	young, _ := NewToken("t-young")
	young.SetCreationDate(&recent)
	_ = young.SetStatus(TokenStatusRevoked)
	tokens = append(tokens, live, orphaned, young)

	return newMemoryTokenStore(now, authorizations, tokens...), authorizations
}

func TestPruner_PruneTokensInBatches(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tokens, authorizations := pruneFixture(t, now)
	pruner := NewPruner(tokens, authorizations, PruningConfig{BatchSize: 2}, stubLogger{}, nil)

	result, err := pruner.PruneTokens(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune tokens: %v", err)
	}
	if result.Deleted != 6 {
		t.Fatalf("expected 6 pruned tokens, got %d", result.Deleted)
	}
	if result.Batches != 3 {
		t.Fatalf("expected 3 batches, got %d", result.Batches)
	}
	if tokens.len() != 2 {
		t.Fatalf("expected live and young tokens to remain, got %d", tokens.len())
	}
}

func TestPruner_MaxBatchesBoundsWork(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tokens, authorizations := pruneFixture(t, now)
	pruner := NewPruner(tokens, authorizations, PruningConfig{BatchSize: 2, MaxBatches: 1}, stubLogger{}, nil)

	result, err := pruner.PruneTokens(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune tokens: %v", err)
	}
	if result.Batches != 1 || result.Deleted != 2 {
		t.Fatalf("expected one batch of two, got %+v", result)
	}
}

func TestPruner_PruneRunsBothStores(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tokens, authorizations := pruneFixture(t, now)
	pruner := NewPruner(tokens, authorizations, PruningConfig{BatchSize: 100}, stubLogger{}, nil)

	report, err := pruner.Prune(context.Background(), now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if report.Authorizations.Deleted != 1 {
		t.Fatalf("expected revoked authorization pruned, got %+v", report.Authorizations)
	}
	if report.Tokens.Deleted < 5 {
		t.Fatalf("expected at least the redeemed tokens pruned, got %+v", report.Tokens)
	}
	if status := authorizations.status("auth-valid"); status == nil {
		t.Fatalf("expected valid authorization to survive")
	}
}

func TestPruner_StopsOnCancellation(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	tokens, authorizations := pruneFixture(t, now)
	pruner := NewPruner(tokens, authorizations, PruningConfig{}, stubLogger{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pruner.PruneTokens(ctx, now); err == nil {
		t.Fatalf("expected cancellation error")
	}
	if tokens.len() != 8 {
		t.Fatalf("expected no deletes after cancellation, got %d remaining", tokens.len())
	}
}

func TestPruner_Cutoff(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	pruner := NewPruner(nil, nil, PruningConfig{Threshold: time.Hour}, nil, nil)
	pruner.now = func() time.Time { return now }
	if got := pruner.Cutoff(); !got.Equal(now.Add(-time.Hour)) {
		t.Fatalf("unexpected cutoff %v", got)
	}
}
