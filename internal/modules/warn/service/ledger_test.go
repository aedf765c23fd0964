package service

import (
	"context"
	"sync"
	"testing"

	warnRepo "github.com/reshetovitsme/posbon/internal/modules/warn/repository"
	"github.com/reshetovitsme/posbon/internal/shared/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	repo, err := warnRepo.NewGormStorage(db)
	require.NoError(t, err)
	return New(repo)
}

func TestAddWarnCountsUp(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	ledger := newTestLedger(t)

	for i := 1; i <= 5; i++ {
		count, err := ledger.AddWarn(ctx, 42, -100, "link")
		assert.NoError(err)
		assert.Equal(i, count)
	}

	assert.NoError(ledger.ResetWarns(ctx, 42, -100))
	count, err := ledger.AddWarn(ctx, 42, -100, "badWord")
	assert.NoError(err)
	assert.Equal(1, count)
}

func TestAddWarnKeepsLatestReason(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)

	_, err := ledger.AddWarn(ctx, 1, 2, "link")
	require.NoError(t, err)
	_, err = ledger.AddWarn(ctx, 1, 2, "forward")
	require.NoError(t, err)

	record, err := ledger.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, record.Count)
	assert.Equal(t, "forward", record.Reason)
}

func TestLedgerKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)

	_, _ = ledger.AddWarn(ctx, 1, 10, "link")
	_, _ = ledger.AddWarn(ctx, 1, 10, "link")

	count, err := ledger.AddWarn(ctx, 1, 20, "link")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = ledger.AddWarn(ctx, 2, 10, "link")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestResetWithoutRecord(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)

	assert.NoError(t, ledger.ResetWarns(ctx, 5, 5))
	record, err := ledger.Get(ctx, 5, 5)
	assert.NoError(t, err)
	assert.Equal(t, 0, record.Count)
}

func TestAddWarnConcurrent(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.AddWarn(ctx, 3, 3, "flood")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	record, err := ledger.Get(ctx, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, 10, record.Count)
}
