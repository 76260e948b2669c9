package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tillpoint/tillpoint-backend/internal/cart"
	"github.com/tillpoint/tillpoint-backend/internal/ledger"
	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
	"github.com/tillpoint/tillpoint-backend/pkg/db/models"
	"github.com/tillpoint/tillpoint-backend/pkg/logger"
	"github.com/tillpoint/tillpoint-backend/pkg/metrics"
	"github.com/tillpoint/tillpoint-backend/pkg/money"
	"github.com/tillpoint/tillpoint-backend/pkg/numpad"
)

// State names the settlement phase the register is in.
type State string

const (
	// StateIdle means no tender has been entered for the current cart.
	StateIdle State = "idle"
	// StateTenderEntered means a tender amount is staged and the sale
	// can be confirmed once it covers the cart total.
	StateTenderEntered State = "tender_entered"
	// StateSettled means the last sale was recorded; the change due
	// stays visible until the next tender entry or reset.
	StateSettled State = "settled"
)

// Service drives the settlement of the current cart against the ledger.
type Service interface {
	// EnterTender parses a localized amount string and stages it as the
	// tendered amount.
	EnterTender(raw string) error
	// QuickTender stages a pre-set tender amount, e.g. a banknote button.
	QuickTender(amount money.Cents) error
	// ChangeDue reports the change for the staged tender, never negative.
	ChangeDue() money.Cents
	// Tendered reports the currently staged tender amount.
	Tendered() money.Cents
	// State reports the current settlement phase.
	State() State
	// PressKey feeds one keypad key into the entry buffer: '0' to '9',
	// ',' for the decimal separator, '<' for backspace, 'C' for clear.
	// It returns the buffer contents after the key.
	PressKey(key rune) string
	// EntryValue reports the current keypad buffer contents.
	EntryValue() string
	// ConfirmEntry stages the keypad buffer as the tendered amount and
	// clears the buffer.
	ConfirmEntry() error
	// Reset drops the staged tender and returns to idle. The cart is
	// left alone.
	Reset()
	// Confirm records the sale. The cart is cleared only after the
	// ledger append succeeds.
	Confirm(ctx context.Context) (*models.Sale, error)
}

type service struct {
	cart    *cart.Container
	ledger  ledger.Service
	logg    *logger.Logger
	metrics *metrics.CheckoutMetrics
	now     func() time.Time

	mu         sync.Mutex
	state      State
	entry      numpad.Buffer
	tendered   money.Cents
	lastChange money.Cents
	confirming bool
}

// NewService wires a settlement service over the given cart and ledger.
func NewService(c *cart.Container, l ledger.Service, logg *logger.Logger, m *metrics.CheckoutMetrics) (Service, error) {
	if c == nil {
		return nil, fmt.Errorf("cart container is required")
	}
	if l == nil {
		return nil, fmt.Errorf("ledger service is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		cart:    c,
		ledger:  l,
		logg:    logg,
		metrics: m,
		now:     time.Now,
		state:   StateIdle,
	}, nil
}

func (s *service) EnterTender(raw string) error {
	amount, err := money.Parse(raw)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tender amount")
	}
	s.stage(amount)
	return nil
}

func (s *service) QuickTender(amount money.Cents) error {
	if amount < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "tender amount must not be negative")
	}
	s.stage(amount)
	return nil
}

func (s *service) stage(amount money.Cents) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tendered = amount
	s.state = StateTenderEntered
}

func (s *service) PressKey(key rune) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch key {
	case numpad.Separator:
		s.entry.AppendSeparator()
	case '<':
		s.entry.Backspace()
	case 'C':
		s.entry.Clear()
	default:
		s.entry.AppendDigit(key)
	}
	return s.entry.Value()
}

func (s *service) EntryValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry.Value()
}

func (s *service) ConfirmEntry() error {
	s.mu.Lock()
	if !s.entry.CanConfirm() {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "no amount entered")
	}
	raw := s.entry.Value()
	s.mu.Unlock()

	if err := s.EnterTender(raw); err != nil {
		return err
	}

	s.mu.Lock()
	s.entry.Clear()
	s.mu.Unlock()
	return nil
}

func (s *service) ChangeDue() money.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateSettled {
		return s.lastChange
	}
	change := s.tendered - s.cart.Total()
	if change < 0 {
		return 0
	}
	return change
}

func (s *service) Tendered() money.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tendered
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tendered = 0
	s.state = StateIdle
}

func (s *service) Confirm(ctx context.Context) (*models.Sale, error) {
	draft, err := s.beginConfirm()
	if err != nil {
		return nil, err
	}

	start := s.now()
	sale, appendErr := s.ledger.Append(ctx, draft)
	s.metrics.ObserveAppend(s.ledger.Backend(), s.now().Sub(start))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirming = false

	if appendErr != nil {
		// tender stays staged and the cart is untouched so the
		// operator can retry
		s.metrics.IncAppendFailure(s.ledger.Backend())
		lctx := s.logg.WithBackend(ctx, s.ledger.Backend())
		s.logg.Error(lctx, "recording sale failed", appendErr)
		return nil, appendErr
	}

	s.cart.Clear()
	s.lastChange = sale.ChangeCents
	s.tendered = 0
	s.state = StateSettled
	s.metrics.IncRecorded()

	lctx := s.logg.WithSaleID(ctx, sale.ID)
	s.logg.Info(lctx, "sale recorded")
	return sale, nil
}

// beginConfirm validates the staged tender against the cart and freezes
// the sale draft while holding the state lock. Only one confirm may be
// in flight at a time.
func (s *service) beginConfirm() (ledger.SaleDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.confirming {
		s.metrics.IncRejected("confirm_in_flight")
		return ledger.SaleDraft{}, pkgerrors.New(pkgerrors.CodeConflict, "a confirmation is already in progress")
	}
	if s.state != StateTenderEntered {
		s.metrics.IncRejected("no_tender")
		return ledger.SaleDraft{}, pkgerrors.New(pkgerrors.CodeValidation, "no tender amount entered")
	}

	snap := s.cart.Snapshot()
	if len(snap.Lines) == 0 {
		s.metrics.IncRejected("empty_cart")
		return ledger.SaleDraft{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if s.tendered < snap.Total {
		s.metrics.IncRejected("insufficient_tender")
		return ledger.SaleDraft{}, pkgerrors.New(pkgerrors.CodeValidation, "tendered amount does not cover the total").WithDetails(map[string]any{
			"total_cents":    snap.Total,
			"tendered_cents": s.tendered,
		})
	}

	draft := ledger.SaleDraft{
		Total:          snap.Total,
		AmountTendered: s.tendered,
		Change:         s.tendered - snap.Total,
		Lines:          make([]ledger.DraftLine, 0, len(snap.Lines)),
	}
	for _, line := range snap.Lines {
		draft.Lines = append(draft.Lines, ledger.DraftLine{
			ItemName:  line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	s.confirming = true
	return draft, nil
}
