// Package checkout simulates placing an order: it validates the contact
// form, mints a synthetic order id, remembers it and empties the cart.
// Nothing is charged and nothing leaves the process.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"demo-storefront/internal/cart"
	"demo-storefront/internal/kv"
)

var (
	ErrEmptyCart     = errors.New("checkout: cart is empty")
	ErrMissingFields = errors.New("checkout: missing required fields")
)

// DefaultOrderPrefix starts every order id.
const DefaultOrderPrefix = "MAISON"

// SuccessPath is where the storefront lands after a placed order.
const SuccessPath = "/demo-store/success"

// Form is the contact data collected at checkout. Every field is required.
type Form struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// Missing returns the json names of fields that are blank after trimming.
func (f Form) Missing() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"firstName", f.FirstName},
		{"lastName", f.LastName},
		{"email", f.Email},
		{"phone", f.Phone},
		{"address", f.Address},
	}
	var missing []string
	for _, fl := range fields {
		if strings.TrimSpace(fl.value) == "" {
			missing = append(missing, fl.name)
		}
	}
	return missing
}

// Receipt describes the cart as it was when the order was placed.
type Receipt struct {
	OrderID      string  `json:"orderId"`
	ItemCount    int     `json:"itemCount"`
	Subtotal     float64 `json:"subtotal"`
	Total        float64 `json:"total"`
	RedirectPath string  `json:"redirectPath"`
}

type Service struct {
	prefix string
	now    func() time.Time
	logger *log.Logger
}

// New builds a checkout service. An empty prefix uses DefaultOrderPrefix.
func New(prefix string, logger *log.Logger) *Service {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultOrderPrefix
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{prefix: prefix, now: time.Now, logger: logger}
}

// Submit places an order for the contents of engine. The order id is
// written to orders on a best-effort basis.
func (s *Service) Submit(ctx context.Context, engine *cart.Engine, orders kv.Store, form Form) (Receipt, error) {
	snap := engine.Snapshot()
	if len(snap.Items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	if missing := form.Missing(); len(missing) > 0 {
		return Receipt{}, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	// The order covers exactly what Drain removed, even if the cart changed
	// after the checks above.
	snap = engine.Drain(ctx)
	if len(snap.Items) == 0 {
		return Receipt{}, ErrEmptyCart
	}

	orderID := s.OrderID()
	if orders != nil {
		if err := orders.Set(ctx, kv.LastOrderKey, orderID); err != nil {
			s.logger.Printf("checkout: store last order order_id=%s error=%v", orderID, err)
		}
	}

	return Receipt{
		OrderID:      orderID,
		ItemCount:    snap.ItemCount,
		Subtotal:     snap.Subtotal,
		Total:        snap.Total,
		RedirectPath: SuccessPath + "?order=" + url.QueryEscape(orderID),
	}, nil
}

// OrderID returns <prefix>-<unix millis in upper-case base 36>. Two orders
// in the same millisecond share an id.
func (s *Service) OrderID() string {
	ms := s.now().UnixMilli()
	return s.prefix + "-" + strings.ToUpper(strconv.FormatInt(ms, 36))
}

// LastOrderID returns the most recent order id stored in orders, or "".
func (s *Service) LastOrderID(ctx context.Context, orders kv.Store) string {
	if orders == nil {
		return ""
	}
	id, ok, err := orders.Get(ctx, kv.LastOrderKey)
	if err != nil {
		s.logger.Printf("checkout: read last order error=%v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return id
}
