package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/ricemandi/cart-service/pkg/errors"
	"github.com/ricemandi/cart-service/pkg/logger"
	"github.com/ricemandi/cart-service/pkg/metrics"
)

// Service exposes the cart engine operations. Every mutation reads the full
// persisted line sequence, applies the change in memory, writes the full
// sequence back and returns the recomputed state.
type Service interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Add(ctx context.Context, sessionID string, input AddInput) (State, error)
	SetQuantity(ctx context.Context, sessionID, id string, quantity int) (State, error)
	Remove(ctx context.Context, sessionID, id string) (State, error)
	Clear(ctx context.Context, sessionID string) (State, error)
}

// AddInput carries the payload for adding a product to a cart.
type AddInput struct {
	ID         string
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int
	StockLimit *int
}

// PersistWarning reports that a mutation completed in memory but the write
// to the backing store failed. The returned State is still valid; callers
// decide whether to log the warning or ignore it. A storage hiccup must
// never break the shopping flow.
type PersistWarning struct {
	cause error
}

func (w *PersistWarning) Error() string {
	return fmt.Sprintf("cart persist failed: %v", w.cause)
}

func (w *PersistWarning) Unwrap() error {
	return w.cause
}

// AsPersistWarning returns the typed warning if err carries one.
func AsPersistWarning(err error) *PersistWarning {
	if err == nil {
		return nil
	}
	var typed *PersistWarning
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// ServiceParams wires the engine's collaborators. Store is required;
// everything else is optional.
type ServiceParams struct {
	Store   LineStore
	Policy  Policy
	Events  Emitter
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

type engine struct {
	store   LineStore
	policy  Policy
	events  Emitter
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService builds the cart engine. A zero Policy is replaced with the
// marketplace defaults.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("line store required")
	}
	if params.Policy.TaxRate.IsZero() && params.Policy.ShippingFee.IsZero() && params.Policy.FreeShippingThreshold.IsZero() {
		params.Policy = DefaultPolicy()
	}
	return &engine{
		store:   params.Store,
		policy:  params.Policy,
		events:  params.Events,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// Load hydrates the cart for a session. A missing key or a blob that fails
// to parse yields an empty cart; load never fails on bad persisted data.
func (e *engine) Load(ctx context.Context, sessionID string) (State, error) {
	defer e.observe("load", time.Now())
	if sessionID == "" {
		e.metrics.IncFailure("load")
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lines := e.hydrate(ctx, sessionID)
	e.metrics.IncSuccess("load")
	return e.snapshot(sessionID, lines), nil
}

// Add merges the input into the cart. An existing line keeps its stored
// name and unit price and has its quantity incremented; a new line is
// appended at the end so insertion order is preserved.
func (e *engine) Add(ctx context.Context, sessionID string, input AddInput) (State, error) {
	defer e.observe("add", time.Now())
	if err := e.validateAdd(sessionID, input); err != nil {
		e.metrics.IncFailure("add")
		return State{}, err
	}

	lines := e.hydrate(ctx, sessionID)

	merged := false
	for i := range lines {
		if lines[i].ID == input.ID {
			lines[i].Quantity += input.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, Line{
			ID:         input.ID,
			Name:       input.Name,
			UnitPrice:  input.UnitPrice,
			Quantity:   input.Quantity,
			StockLimit: input.StockLimit,
		})
	}

	warn := e.persist(ctx, "add", sessionID, lines)
	e.emit(Event{
		Kind:      EventItemAdded,
		SessionID: sessionID,
		LineID:    input.ID,
		Name:      input.Name,
		Quantity:  input.Quantity,
	})
	e.metrics.IncSuccess("add")
	return e.snapshot(sessionID, lines), warn
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line; an unknown id leaves the sequence untouched but the
// state is still persisted and returned.
func (e *engine) SetQuantity(ctx context.Context, sessionID, id string, quantity int) (State, error) {
	if quantity <= 0 {
		return e.Remove(ctx, sessionID, id)
	}

	defer e.observe("set_quantity", time.Now())
	if sessionID == "" {
		e.metrics.IncFailure("set_quantity")
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if id == "" {
		e.metrics.IncFailure("set_quantity")
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	lines := e.hydrate(ctx, sessionID)
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Quantity = quantity
			break
		}
	}

	warn := e.persist(ctx, "set_quantity", sessionID, lines)
	e.metrics.IncSuccess("set_quantity")
	return e.snapshot(sessionID, lines), warn
}

// Remove deletes the line with the given id. Removing an unknown id is a
// no-op; the removal event fires only when a line actually left the cart.
func (e *engine) Remove(ctx context.Context, sessionID, id string) (State, error) {
	defer e.observe("remove", time.Now())
	if sessionID == "" {
		e.metrics.IncFailure("remove")
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	lines := e.hydrate(ctx, sessionID)

	var removed *Line
	kept := lines[:0]
	for _, line := range lines {
		if line.ID == id && removed == nil {
			copied := line
			removed = &copied
			continue
		}
		kept = append(kept, line)
	}

	warn := e.persist(ctx, "remove", sessionID, kept)
	if removed != nil {
		e.emit(Event{
			Kind:      EventItemRemoved,
			SessionID: sessionID,
			LineID:    removed.ID,
			Name:      removed.Name,
			Quantity:  removed.Quantity,
		})
	}
	e.metrics.IncSuccess("remove")
	return e.snapshot(sessionID, kept), warn
}

// Clear empties the cart and drops the persisted key.
func (e *engine) Clear(ctx context.Context, sessionID string) (State, error) {
	defer e.observe("clear", time.Now())
	if sessionID == "" {
		e.metrics.IncFailure("clear")
		return State{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	var warn error
	if err := e.store.Delete(ctx, sessionID); err != nil {
		e.metrics.IncPersistFailure("clear")
		if e.logg != nil {
			scoped := e.logg.WithSessionID(ctx, sessionID)
			e.logg.Warn(scoped, "cart clear did not reach the store")
		}
		warn = &PersistWarning{cause: err}
	}
	e.metrics.IncSuccess("clear")
	return e.snapshot(sessionID, nil), warn
}

func (e *engine) validateAdd(sessionID string, input AddInput) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if input.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if input.UnitPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
	}
	if input.StockLimit != nil && *input.StockLimit < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock limit cannot be negative")
	}
	return nil
}

// hydrate reads the persisted lines, degrading any read problem to an
// empty cart. A missing key is the normal empty case; anything else is
// counted as a hydration reset.
func (e *engine) hydrate(ctx context.Context, sessionID string) []Line {
	lines, err := e.store.Load(ctx, sessionID)
	if err == nil {
		return lines
	}
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	e.metrics.IncHydrationReset()
	if e.logg != nil {
		scoped := e.logg.WithSessionID(ctx, sessionID)
		e.logg.Warn(scoped, "cart state unreadable, starting empty")
	}
	return nil
}

func (e *engine) persist(ctx context.Context, op, sessionID string, lines []Line) error {
	if err := e.store.Save(ctx, sessionID, lines); err != nil {
		e.metrics.IncPersistFailure(op)
		if e.logg != nil {
			scoped := e.logg.WithSessionID(ctx, sessionID)
			e.logg.Warn(scoped, "cart mutation not persisted")
		}
		return &PersistWarning{cause: err}
	}
	return nil
}

func (e *engine) snapshot(sessionID string, lines []Line) State {
	return State{
		SessionID: sessionID,
		Lines:     lines,
		Totals:    e.policy.Compute(lines),
	}
}

func (e *engine) emit(event Event) {
	if e.events == nil {
		return
	}
	e.events.Emit(event)
}

func (e *engine) observe(op string, start time.Time) {
	e.metrics.ObserveDuration(op, time.Since(start))
}
