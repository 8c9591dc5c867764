// Package ledger holds every user's cash balance and share holdings
// and applies buy/sell orders against them.
//
// The ledger carries no lock of its own. The sim.Engine serializes all
// access behind the same mutex that guards the price store, so an
// order is priced and settled without a tick interleaving.
package ledger

import (
	"fmt"
	"sort"

	"brokersim/market"
)

// DefaultReferenceCost is the fixed per-share cost used for P/L. This
// is a simulation placeholder, not cost-basis accounting: real lot
// tracking is out of scope and the constant is kept deliberately.
const DefaultReferenceCost = 400.0

// Account is one user's cash and holdings. Cash is never negative;
// holding quantities are strictly positive (entries are removed when
// they reach zero).
type Account struct {
	UserID   string
	Cash     float64
	Holdings map[string]int
}

type Ledger struct {
	referenceCost float64
	accounts      map[string]*Account
}

func NewLedger(referenceCost float64) *Ledger {
	if referenceCost <= 0 {
		referenceCost = DefaultReferenceCost
	}
	return &Ledger{
		referenceCost: referenceCost,
		accounts:      make(map[string]*Account),
	}
}

// CreateAccount opens an account with the given starting cash. Opening
// an account that already exists is a no-op; identity management
// belongs to the authentication layer, the ledger just keys on the
// opaque user ID it is handed.
func (l *Ledger) CreateAccount(userID string, cash float64) *Account {
	if acct, ok := l.accounts[userID]; ok {
		return acct
	}
	acct := &Account{
		UserID:   userID,
		Cash:     market.Round2(cash),
		Holdings: make(map[string]int),
	}
	l.accounts[userID] = acct
	return acct
}

// SeedAccount installs an account with preset holdings, replacing any
// existing one. Used when loading configured demo accounts.
func (l *Ledger) SeedAccount(userID string, cash float64, holdings map[string]int) {
	acct := &Account{
		UserID:   userID,
		Cash:     cash,
		Holdings: make(map[string]int, len(holdings)),
	}
	for sym, qty := range holdings {
		acct.Holdings[sym] = qty
	}
	l.accounts[userID] = acct
}

// Users returns all account IDs in sorted order.
func (l *Ledger) Users() []string {
	ids := make([]string, 0, len(l.accounts))
	for id := range l.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (l *Ledger) Cash(userID string) (float64, error) {
	acct, ok := l.accounts[userID]
	if !ok {
		return 0, ErrUnknownUser
	}
	return acct.Cash, nil
}

// Holdings returns a copy of the user's holdings.
func (l *Ledger) Holdings(userID string) (map[string]int, error) {
	acct, ok := l.accounts[userID]
	if !ok {
		return nil, ErrUnknownUser
	}
	out := make(map[string]int, len(acct.Holdings))
	for sym, qty := range acct.Holdings {
		out[sym] = qty
	}
	return out, nil
}

// Apply validates and settles one order at the given price. A rejected
// order leaves the account untouched.
func (l *Ledger) Apply(userID, symbol string, side Side, quantity int, price float64) error {
	if quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", quantity, ErrInvalidOrder)
	}
	if !market.Supported(symbol) {
		return fmt.Errorf("instrument %q: %w", symbol, ErrInvalidOrder)
	}

	acct, ok := l.accounts[userID]
	if !ok {
		return fmt.Errorf("user %q: %w", userID, ErrUnknownUser)
	}

	cost := price * float64(quantity)

	switch side {
	case Buy:
		if acct.Cash < cost {
			return fmt.Errorf("need %.2f, have %.2f: %w", cost, acct.Cash, ErrInsufficientFunds)
		}
		acct.Cash = market.Round2(acct.Cash - cost)
		acct.Holdings[symbol] += quantity

	case Sell:
		held := acct.Holdings[symbol]
		if held < quantity {
			return fmt.Errorf("hold %d, sell %d: %w", held, quantity, ErrInsufficientHoldings)
		}
		acct.Cash = market.Round2(acct.Cash + cost)
		if held == quantity {
			delete(acct.Holdings, symbol)
		} else {
			acct.Holdings[symbol] = held - quantity
		}

	default:
		return fmt.Errorf("side %v: %w", side, ErrInvalidOrder)
	}

	return nil
}
