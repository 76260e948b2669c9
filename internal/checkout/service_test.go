package checkout

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/internal/ledger"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
)

type fakeLedger struct {
	appendFn func(ctx context.Context, draft ledger.SaleDraft) (*models.Sale, error)
	appends  []ledger.SaleDraft
}

func (f *fakeLedger) Append(ctx context.Context, draft ledger.SaleDraft) (*models.Sale, error) {
	f.appends = append(f.appends, draft)
	if f.appendFn != nil {
		return f.appendFn(ctx, draft)
	}
	return &models.Sale{
		ID:                  1,
		RecordedAt:          time.Now(),
		TotalCents:          draft.Total,
		AmountTenderedCents: draft.AmountTendered,
		ChangeCents:         draft.Change,
	}, nil
}

func (f *fakeLedger) SalesForDay(context.Context, time.Time) ([]models.Sale, error) {
	return nil, nil
}

func (f *fakeLedger) DeleteLineItem(context.Context, int64, int64) (ledger.LineDeletion, error) {
	return ledger.LineDeletion{}, nil
}

func (f *fakeLedger) DeleteSale(context.Context, int64) error { return nil }

func (f *fakeLedger) ExportCSV(context.Context, time.Time, time.Time) (string, error) {
	return "", nil
}

func (f *fakeLedger) Backend() string { return "fake" }

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, fl *fakeLedger) (Service, *cart.Container) {
	t.Helper()
	c := cart.New()
	svc, err := NewService(c, fl, quietLogger(), nil)
	require.NoError(t, err)
	return svc, c
}

func stockedCart(c *cart.Container) {
	c.AddItem(models.Item{ID: 1, Name: "Wollsocken", UnitPriceCents: 2999}, nil)
	c.AddItem(models.Item{ID: 1, Name: "Wollsocken", UnitPriceCents: 2999}, nil)
	c.AddItem(models.Item{ID: 2, Name: "Stiefel", UnitPriceCents: 7999}, nil)
}

func TestEnterTenderParsesLocalizedAmount(t *testing.T) {
	svc, _ := newTestService(t, &fakeLedger{})

	require.NoError(t, svc.EnterTender("150,00"))
	assert.Equal(t, money.Cents(15000), svc.Tendered())
	assert.Equal(t, StateTenderEntered, svc.State())

	err := svc.EnterTender("abc")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	// a failed parse leaves the staged amount alone
	assert.Equal(t, money.Cents(15000), svc.Tendered())
}

func TestQuickTender(t *testing.T) {
	svc, _ := newTestService(t, &fakeLedger{})

	require.NoError(t, svc.QuickTender(5000))
	assert.Equal(t, money.Cents(5000), svc.Tendered())
	assert.Equal(t, StateTenderEntered, svc.State())

	err := svc.QuickTender(-1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestChangeDueNeverNegative(t *testing.T) {
	svc, c := newTestService(t, &fakeLedger{})
	stockedCart(c)

	require.NoError(t, svc.QuickTender(10000))
	assert.Equal(t, money.Cents(0), svc.ChangeDue())

	require.NoError(t, svc.QuickTender(15000))
	assert.Equal(t, money.Cents(1003), svc.ChangeDue())
}

func TestKeypadEntryStagesTender(t *testing.T) {
	svc, c := newTestService(t, &fakeLedger{})
	stockedCart(c)

	for _, key := range "150,00" {
		svc.PressKey(key)
	}
	assert.Equal(t, "150,00", svc.EntryValue())

	require.NoError(t, svc.ConfirmEntry())
	assert.Equal(t, money.Cents(15000), svc.Tendered())
	assert.Equal(t, StateTenderEntered, svc.State())
	// the buffer is consumed by a successful confirm
	assert.Equal(t, "", svc.EntryValue())
}

func TestKeypadEditingKeys(t *testing.T) {
	svc, _ := newTestService(t, &fakeLedger{})

	for _, key := range "19,99" {
		svc.PressKey(key)
	}
	svc.PressKey('<')
	assert.Equal(t, "19,9", svc.EntryValue())

	svc.PressKey('C')
	assert.Equal(t, "", svc.EntryValue())

	err := svc.ConfirmEntry()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestConfirmRecordsSaleAndClearsCart(t *testing.T) {
	fl := &fakeLedger{}
	svc, c := newTestService(t, fl)
	stockedCart(c)
	require.NoError(t, svc.EnterTender("150,00"))

	sale, err := svc.Confirm(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, money.Cents(1003), sale.ChangeCents)

	require.Len(t, fl.appends, 1)
	draft := fl.appends[0]
	assert.Equal(t, money.Cents(13997), draft.Total)
	assert.Equal(t, money.Cents(15000), draft.AmountTendered)
	require.Len(t, draft.Lines, 2)
	assert.Equal(t, "Wollsocken", draft.Lines[0].ItemName)
	assert.Equal(t, 2, draft.Lines[0].Quantity)

	assert.True(t, c.Empty())
	assert.Equal(t, StateSettled, svc.State())
	// the change stays on display until the next interaction
	assert.Equal(t, money.Cents(1003), svc.ChangeDue())

	svc.Reset()
	assert.Equal(t, StateIdle, svc.State())
	assert.Equal(t, money.Cents(0), svc.ChangeDue())
}

func TestConfirmRejectsInsufficientTender(t *testing.T) {
	fl := &fakeLedger{}
	svc, c := newTestService(t, fl)
	stockedCart(c)
	require.NoError(t, svc.QuickTender(10000))

	_, err := svc.Confirm(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, fl.appends)
	assert.False(t, c.Empty())
	assert.Equal(t, StateTenderEntered, svc.State())
}

func TestConfirmRejectsEmptyCart(t *testing.T) {
	fl := &fakeLedger{}
	svc, _ := newTestService(t, fl)
	require.NoError(t, svc.QuickTender(5000))

	_, err := svc.Confirm(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, fl.appends)
}

func TestConfirmRejectsWithoutTender(t *testing.T) {
	fl := &fakeLedger{}
	svc, c := newTestService(t, fl)
	stockedCart(c)

	_, err := svc.Confirm(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Empty(t, fl.appends)
}

func TestConfirmKeepsStateOnAppendFailure(t *testing.T) {
	fl := &fakeLedger{appendFn: func(context.Context, ledger.SaleDraft) (*models.Sale, error) {
		return nil, pkgerrors.New(pkgerrors.CodePersistence, "disk full")
	}}
	svc, c := newTestService(t, fl)
	stockedCart(c)
	require.NoError(t, svc.QuickTender(15000))

	_, err := svc.Confirm(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodePersistence))

	// everything stays in place for a retry
	assert.False(t, c.Empty())
	assert.Equal(t, StateTenderEntered, svc.State())
	assert.Equal(t, money.Cents(15000), svc.Tendered())

	fl.appendFn = nil
	sale, err := svc.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, money.Cents(1003), sale.ChangeCents)
}

func TestConfirmRejectsConcurrentConfirm(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fl := &fakeLedger{appendFn: func(_ context.Context, draft ledger.SaleDraft) (*models.Sale, error) {
		close(started)
		<-release
		return &models.Sale{ID: 1, ChangeCents: draft.Change}, nil
	}}
	svc, c := newTestService(t, fl)
	stockedCart(c)
	require.NoError(t, svc.QuickTender(15000))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Confirm(context.Background())
		assert.NoError(t, err)
	}()

	<-started
	_, err := svc.Confirm(context.Background())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	close(release)
	wg.Wait()
	assert.Equal(t, StateSettled, svc.State())
}
