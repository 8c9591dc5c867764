// Package watchlist tracks which instruments each user has opted into
// displaying. It is purely a display filter: trading is never gated by
// it, though a successful buy adds the symbol here.
package watchlist

import (
	"sort"
	"sync"
)

type Registry struct {
	mu    sync.RWMutex
	lists map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{lists: make(map[string][]string)}
}

// Add inserts the symbol into the user's list in sorted order.
// Adding a symbol already present is a no-op.
func (r *Registry) Add(user, symbol string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.lists[user]
	i := sort.SearchStrings(list, symbol)
	if i < len(list) && list[i] == symbol {
		return
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = symbol
	r.lists[user] = list
}

// List returns a copy of the user's watchlist, sorted.
func (r *Registry) List(user string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.lists[user]))
	copy(out, r.lists[user])
	return out
}

func (r *Registry) Contains(user, symbol string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.lists[user]
	i := sort.SearchStrings(list, symbol)
	return i < len(list) && list[i] == symbol
}
