package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/store"
)

var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrCompareLimit      = errors.New("you can compare up to 4 products")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoPaymentDue      = errors.New("no payment due")
	ErrPaymentInProgress = errors.New("payment is processing")
	ErrNotSwapListing    = errors.New("listing is not offered for swap")
	ErrOwnSwapTarget     = errors.New("cannot propose a swap on your own listing")
	ErrOwnerUnknown      = errors.New("listing owner cannot be resolved")
	ErrForbidden         = errors.New("forbidden")
)

// Engine coordinates the cart, compare set, swap proposal, and checkout
// workflows across the catalog, purchase, notification, and wishlist stores.
// Engine state is transient and per session key; everything durable lives in
// the injected stores.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*session

	products      store.ProductStore
	purchases     store.PurchaseStore
	notifications store.NotificationStore
	wishlist      store.WishlistStore
	processor     PaymentProcessor
	log           *slog.Logger

	now   func() time.Time
	newID func() string
}

// session holds one user's transient workflow state. The cart and compare
// set are derived view state, reconciled against the stores on mutation.
type session struct {
	cart        []model.CartItem
	compare     []model.Product
	checkout    CheckoutState
	pendingSwap *model.SwapProposal
	swapTarget  *model.Product
	lastOrder   *model.Purchase
}

func NewEngine(
	products store.ProductStore,
	purchases store.PurchaseStore,
	notifications store.NotificationStore,
	wishlist store.WishlistStore,
	processor PaymentProcessor,
	log *slog.Logger,
) *Engine {
	if processor == nil {
		processor = &SimulatedProcessor{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		sessions:      make(map[string]*session),
		products:      products,
		purchases:     purchases,
		notifications: notifications,
		wishlist:      wishlist,
		processor:     processor,
		log:           log,
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

func (e *Engine) session(key string) *session {
	s, ok := e.sessions[key]
	if !ok {
		s = &session{checkout: idleState()}
		e.sessions[key] = s
	}
	return s
}

// AddToCartResult reports either a cart mutation or a redirect into the swap
// proposal flow. It is a plain result; cosmetic effects subscribe to it
// outside the engine.
type AddToCartResult struct {
	SwapRequired bool             `json:"swapRequired"`
	Product      model.Product    `json:"product"`
	Cart         []model.CartItem `json:"cart"`
}

// AddToCart upserts a sale listing into the cart, incrementing quantity when
// the product is already present. Swap listings never enter the cart: they
// require an authenticated session and divert into the swap proposal flow.
func (e *Engine) AddToCart(ctx context.Context, key string, user *model.User, productID uint64) (*AddToCartResult, error) {
	product, err := e.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(key)

	if product.ListingType.Normalize() == model.ListingSwap {
		if user == nil {
			return nil, ErrAuthRequired
		}
		s.swapTarget = product
		return &AddToCartResult{SwapRequired: true, Product: *product, Cart: cloneCart(s.cart)}, nil
	}

	if i := model.FindCartIndex(s.cart, product.ID); i >= 0 {
		s.cart[i].Quantity++
	} else {
		s.cart = append(s.cart, model.CartItem{Product: *product, Quantity: 1})
	}
	return &AddToCartResult{Product: *product, Cart: cloneCart(s.cart)}, nil
}

// UpdateQuantity applies a signed delta to a cart entry, clamped at 1.
// Removal is a separate explicit action.
func (e *Engine) UpdateQuantity(key string, productID uint64, delta int) []model.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(key)
	if i := model.FindCartIndex(s.cart, productID); i >= 0 {
		q := s.cart[i].Quantity + delta
		if q < 1 {
			q = 1
		}
		s.cart[i].Quantity = q
	}
	return cloneCart(s.cart)
}

func (e *Engine) RemoveFromCart(key string, productID uint64) []model.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(key)
	s.cart = removeCartItem(s.cart, productID)
	return cloneCart(s.cart)
}

func (e *Engine) Cart(key string) []model.CartItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneCart(e.session(key).cart)
}

// ToggleCompare adds the product to the compare set or removes it when
// already present. The set is bounded at 4; a fifth distinct product is
// rejected and the set left unchanged.
func (e *Engine) ToggleCompare(ctx context.Context, key string, productID uint64) (bool, []model.Product, error) {
	product, err := e.products.FindByID(ctx, productID)
	if err != nil {
		return false, nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(key)
	for i := range s.compare {
		if s.compare[i].ID == productID {
			s.compare = append(s.compare[:i], s.compare[i+1:]...)
			return false, cloneProducts(s.compare), nil
		}
	}
	if len(s.compare) >= 4 {
		return false, cloneProducts(s.compare), ErrCompareLimit
	}
	s.compare = append(s.compare, *product)
	return true, cloneProducts(s.compare), nil
}

func (e *Engine) CompareList(key string) []model.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneProducts(e.session(key).compare)
}

func (e *Engine) ClearCompare(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session(key).compare = nil
}

// Checkout computes the amount due for the cart and advances the state
// machine. Without an authenticated session it parks in awaiting_auth; the
// client retries after sign-in.
func (e *Engine) Checkout(ctx context.Context, key string, user *model.User) (CheckoutState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(key)
	if s.checkout.Phase == PhaseProcessing {
		return s.checkout, ErrPaymentInProgress
	}
	if len(s.cart) == 0 {
		return s.checkout, ErrEmptyCart
	}
	if user == nil {
		s.checkout = CheckoutState{Phase: PhaseAwaitingAuth, Context: ContextCart}
		return s.checkout, nil
	}
	s.checkout = CheckoutState{
		Phase:   PhaseAmountComputed,
		Context: ContextCart,
		Amount:  model.CartTotal(s.cart),
	}
	return s.checkout, nil
}

// SwapSubmitResult reports whether the proposal was delivered immediately or
// parked behind a cash payment.
type SwapSubmitResult struct {
	Notified bool          `json:"notified"`
	State    CheckoutState `json:"state"`
}

// SubmitSwapProposal validates a proposal against the proposer's own
// listings. With a cash top-up the notification is deferred until the
// payment succeeds; without one the target owner is notified immediately.
func (e *Engine) SubmitSwapProposal(ctx context.Context, key string, user model.User, targetID uint64, offeredIDs []uint64, note string, cash float64) (*SwapSubmitResult, error) {
	target, err := e.products.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.ListingType.Normalize() != model.ListingSwap {
		return nil, ErrNotSwapListing
	}
	if target.OwnedBy(user.Email) {
		return nil, ErrOwnSwapTarget
	}
	if cash < 0 {
		return nil, fmt.Errorf("cash offer must not be negative")
	}
	if err := e.verifyOwnListings(ctx, user.Email, offeredIDs); err != nil {
		return nil, err
	}

	proposal := model.SwapProposal{
		ProposerEmail:  user.Email,
		OfferedItemIDs: offeredIDs,
		TargetItemID:   target.ID,
		Note:           note,
		CashOffer:      cash,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(key)
	if s.checkout.Phase == PhaseProcessing {
		return nil, ErrPaymentInProgress
	}

	if cash > 0 {
		// Take the payment before the owner hears about the offer.
		if target.AddedBy == nil || target.AddedBy.Email == "" {
			return nil, ErrOwnerUnknown
		}
		s.pendingSwap = &proposal
		s.swapTarget = target
		s.checkout = CheckoutState{Phase: PhaseAmountComputed, Context: ContextSwap, Amount: cash}
		return &SwapSubmitResult{State: s.checkout}, nil
	}

	notified := e.notifySwapProposal(ctx, user, *target, proposal)
	s.swapTarget = nil
	return &SwapSubmitResult{Notified: notified, State: s.checkout}, nil
}

// PaymentResult carries the side effect of a completed payment: an order for
// cart context, a delivered proposal for swap context.
type PaymentResult struct {
	Order    *model.Purchase `json:"order,omitempty"`
	Notified bool            `json:"notified,omitempty"`
	State    CheckoutState   `json:"state"`
}

// Pay drives the state machine from amount_computed through processing to
// succeeded, then runs the context-dependent side effect and returns to
// idle. The simulated processor cannot fail.
func (e *Engine) Pay(ctx context.Context, key string, user *model.User) (*PaymentResult, error) {
	if user == nil {
		return nil, ErrAuthRequired
	}

	e.mu.Lock()
	s := e.session(key)
	if s.checkout.Phase != PhaseAmountComputed {
		e.mu.Unlock()
		return nil, ErrNoPaymentDue
	}
	amount := s.checkout.Amount
	payCtx := s.checkout.Context
	s.checkout.Phase = PhaseProcessing
	e.mu.Unlock()

	// The processor runs outside the lock; progress updates are re-locked.
	err := e.processor.Process(ctx, amount, func(step, steps int) {
		e.mu.Lock()
		s.checkout.Step = step
		s.checkout.Steps = steps
		e.mu.Unlock()
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		// Only cancellation can land here; the machine resets rather than
		// modeling a failed phase.
		s.checkout = idleState()
		return nil, err
	}
	s.checkout.Phase = PhaseSucceeded

	result := &PaymentResult{}
	switch payCtx {
	case ContextSwap:
		if s.pendingSwap == nil || s.swapTarget == nil {
			s.checkout = idleState()
			return nil, ErrNoPaymentDue
		}
		result.Notified = e.notifySwapProposal(ctx, *user, *s.swapTarget, *s.pendingSwap)
		s.pendingSwap = nil
		s.swapTarget = nil
	default:
		order := model.Purchase{
			ID:        e.newID(),
			UserEmail: user.Email,
			Date:      e.now(),
			Items:     append([]model.CartItem(nil), s.cart...),
			Total:     amount,
		}
		if err := e.purchases.Add(ctx, order); err != nil {
			s.checkout = idleState()
			return nil, fmt.Errorf("record purchase: %w", err)
		}
		s.cart = nil
		s.lastOrder = &order
		result.Order = &order
	}

	s.checkout = idleState()
	result.State = s.checkout
	return result, nil
}

// CancelCheckout resets the machine to idle and discards any pending swap.
// A payment already processing cannot be cancelled.
func (e *Engine) CancelCheckout(key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.session(key)
	if s.checkout.Phase == PhaseProcessing {
		return ErrPaymentInProgress
	}
	s.checkout = idleState()
	s.pendingSwap = nil
	s.swapTarget = nil
	return nil
}

func (e *Engine) CheckoutState(key string) CheckoutState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session(key).checkout
}

// LastOrder returns the most recent order completed in this session, for the
// confirmation view.
func (e *Engine) LastOrder(key string) *model.Purchase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session(key).lastOrder
}

// DeleteProduct removes a listing (owner or admin only) and cascades the
// removal through every session's cart and compare set and every persisted
// wishlist.
func (e *Engine) DeleteProduct(ctx context.Context, productID uint64, actor model.User) error {
	product, err := e.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if actor.Role != model.RoleAdmin && !product.OwnedBy(actor.Email) {
		return ErrForbidden
	}
	if _, err := e.products.Remove(ctx, productID); err != nil {
		return err
	}
	if err := e.wishlist.RemoveProduct(ctx, productID); err != nil {
		e.log.Warn("wishlist cascade failed", "product_id", productID, "err", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.sessions {
		s.cart = removeCartItem(s.cart, productID)
		for i := range s.compare {
			if s.compare[i].ID == productID {
				s.compare = append(s.compare[:i], s.compare[i+1:]...)
				break
			}
		}
		if s.swapTarget != nil && s.swapTarget.ID == productID {
			s.swapTarget = nil
			s.pendingSwap = nil
			if s.checkout.Context == ContextSwap && s.checkout.Phase != PhaseProcessing {
				s.checkout = idleState()
			}
		}
	}
	return nil
}

// notifySwapProposal is best-effort: a missing owner or a store error is
// logged and reported as not delivered, never surfaced as a failure of the
// submitting flow.
func (e *Engine) notifySwapProposal(ctx context.Context, proposer model.User, target model.Product, proposal model.SwapProposal) bool {
	if target.AddedBy == nil || target.AddedBy.Email == "" {
		e.log.Warn("swap proposal dropped: owner unknown", "target_id", target.ID)
		return false
	}
	title := "New Swap Proposal"
	message := fmt.Sprintf("%s wants to trade for your %s", proposer.Name, target.Name)
	if proposal.CashOffer > 0 {
		title = "New Swap Proposal + Cash"
		message = fmt.Sprintf("%s wants to trade + offered $%.2f", proposer.Name, proposal.CashOffer)
	}
	n := model.Notification{
		ID:        e.newID(),
		UserEmail: target.AddedBy.Email,
		Type:      model.NotificationSwapProposal,
		Title:     title,
		Message:   message,
		Date:      e.now(),
		Swap:      &proposal,
	}
	if err := e.notifications.Add(ctx, n); err != nil {
		e.log.Error("notify swap proposal", "target_id", target.ID, "err", err)
		return false
	}
	return true
}

func (e *Engine) verifyOwnListings(ctx context.Context, email string, ids []uint64) error {
	for _, id := range ids {
		p, err := e.products.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("offered listing %d: %w", id, err)
		}
		if !p.OwnedBy(email) {
			return fmt.Errorf("offered listing %d is not yours", id)
		}
	}
	return nil
}

// cloneCart copies the slice so callers never hold an alias into session
// state that later mutates under the engine lock.
func cloneCart(items []model.CartItem) []model.CartItem {
	if items == nil {
		return nil
	}
	return append([]model.CartItem(nil), items...)
}

func cloneProducts(items []model.Product) []model.Product {
	if items == nil {
		return nil
	}
	return append([]model.Product(nil), items...)
}

func removeCartItem(items []model.CartItem, productID uint64) []model.CartItem {
	for i := range items {
		if items[i].ID == productID {
			return append(items[:i], items[i+1:]...)
		}
	}
	return items
}
