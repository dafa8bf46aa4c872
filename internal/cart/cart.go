// ABOUTME: Client-side shopping cart keyed by product id
// ABOUTME: Keeps insertion order, snapshots product fields at add time, notifies on change

package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrEmpty is returned when an operation needs at least one item
var ErrEmpty = errors.New("cart is empty")

// Product is the snapshot of display fields captured when an item is added.
// Later price changes on the server do not touch items already in the cart.
type Product struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	ImageURL string
}

// Item is one cart line. Quantity is always >= 1.
type Item struct {
	Product
	Quantity int
}

// Subtotal returns price * quantity for the line
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Line is the checkout representation of an item
type Line struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Store is the cart. At most one entry exists per product id and entries
// keep the order in which they were first added.
type Store struct {
	mu    sync.RWMutex
	order []int64
	items map[int64]*Item

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New creates an empty cart
func New() *Store {
	return &Store{
		items: map[int64]*Item{},
		subs:  map[int]func(){},
	}
}

// AddToCart inserts p with quantity 1, or increments the existing entry
func (s *Store) AddToCart(p Product) {
	s.mu.Lock()
	if it, ok := s.items[p.ID]; ok {
		it.Quantity++
	} else {
		s.items[p.ID] = &Item{Product: p, Quantity: 1}
		s.order = append(s.order, p.ID)
	}
	s.mu.Unlock()

	s.notify()
}

// RemoveFromCart deletes the entry for id; absent ids are ignored
func (s *Store) RemoveFromCart(id int64) {
	s.mu.Lock()
	removed := s.removeLocked(id)
	s.mu.Unlock()

	if removed {
		s.notify()
	}
}

// UpdateQuantity sets the quantity for id. A quantity <= 0 removes the
// entry. Stock is not checked here; the server validates it at checkout.
func (s *Store) UpdateQuantity(id int64, quantity int) {
	s.mu.Lock()
	changed := false
	if quantity <= 0 {
		changed = s.removeLocked(id)
	} else if it, ok := s.items[id]; ok && it.Quantity != quantity {
		it.Quantity = quantity
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// ClearCart empties the cart
func (s *Store) ClearCart() {
	s.mu.Lock()
	changed := len(s.order) > 0
	s.order = nil
	s.items = map[int64]*Item{}
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// CartTotal returns the sum of price * quantity over all entries
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, id := range s.order {
		total = total.Add(s.items[id].Subtotal())
	}
	return total
}

// CartItemsCount returns the sum of quantities (the cart badge number)
func (s *Store) CartItemsCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// Len returns the number of distinct products
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get returns the entry for id
func (s *Store) Get(id int64) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return Item{}, false
	}
	return *it, true
}

// Items returns a copy of the entries in display order
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out
}

// CheckoutLines returns the order payload for the current cart
func (s *Store) CheckoutLines() ([]Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil, ErrEmpty
	}
	lines := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		lines = append(lines, Line{ProductID: id, Quantity: s.items[id].Quantity})
	}
	return lines, nil
}

// Subscribe registers fn to run after every change and returns its cancel func
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) removeLocked(id int64) bool {
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for id := 0; id < s.nextSub; id++ {
		if fn, ok := s.subs[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
