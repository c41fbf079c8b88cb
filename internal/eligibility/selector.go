package eligibility

import (
	"fmt"
	"time"

	"github.com/RevCBH/nibbl/internal/history"
	"github.com/RevCBH/nibbl/internal/receipt"
)

const (
	// DefaultCooldown is how long a reviewed item stays blocked.
	DefaultCooldown = 90 * 24 * time.Hour

	// MaxProducts caps how many products one session may review.
	MaxProducts = 5
)

// Tier is the priority class a product falls into.
type Tier int

const (
	// TierNone marks a repeat still inside its cooldown. Such products are dropped.
	TierNone Tier = iota
	// TierNewBrand is a product whose brand was never reviewed.
	TierNewBrand
	// TierNewItem is a product from a reviewed brand, never reviewed itself.
	TierNewItem
	// TierCooldownExpired is a reviewed product whose cooldown has passed.
	TierCooldownExpired
)

func (t Tier) String() string {
	switch t {
	case TierNewBrand:
		return "new brand"
	case TierNewItem:
		return "new item"
	case TierCooldownExpired:
		return "cooldown expired"
	case TierNone:
		return "in cooldown"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Candidate is a receipt product with the tier it was classified into.
type Candidate struct {
	Product receipt.Product
	Tier    Tier
}

// Options tunes a Selector. Zero values take the defaults.
type Options struct {
	Cooldown time.Duration
	Limit    int
}

// Selector picks which receipt products are up for review.
// It holds no state between calls and never mutates its inputs.
type Selector struct {
	cooldown time.Duration
	limit    int
}

// NewSelector creates a selector. A limit above MaxProducts is clamped.
func NewSelector(opts Options) *Selector {
	s := &Selector{cooldown: opts.Cooldown, limit: opts.Limit}
	if s.cooldown <= 0 {
		s.cooldown = DefaultCooldown
	}
	if s.limit <= 0 || s.limit > MaxProducts {
		s.limit = MaxProducts
	}
	return s
}

// Select returns up to the configured limit of eligible products, new
// brands first, then new items, then repeats whose cooldown has expired.
// Receipt order is kept within each tier.
func (s *Selector) Select(products []receipt.Product, log history.Log, now time.Time) []receipt.Product {
	ranked := s.Rank(products, log, now)
	if len(ranked) > s.limit {
		ranked = ranked[:s.limit]
	}
	out := make([]receipt.Product, len(ranked))
	for i, c := range ranked {
		out[i] = c.Product
	}
	return out
}

// Rank classifies every product and returns the eligible ones in priority
// order without truncation.
func (s *Selector) Rank(products []receipt.Product, log history.Log, now time.Time) []Candidate {
	if len(products) == 0 {
		return nil
	}

	idx := newIndex(log)
	var newBrand, newItem, expired []Candidate
	for _, p := range products {
		switch tier := s.classify(p, idx, log, now); tier {
		case TierNewBrand:
			newBrand = append(newBrand, Candidate{Product: p, Tier: tier})
		case TierNewItem:
			newItem = append(newItem, Candidate{Product: p, Tier: tier})
		case TierCooldownExpired:
			expired = append(expired, Candidate{Product: p, Tier: tier})
		}
	}

	out := make([]Candidate, 0, len(newBrand)+len(newItem)+len(expired))
	out = append(out, newBrand...)
	out = append(out, newItem...)
	out = append(out, expired...)
	return out
}

// Classify reports the tier of a single product.
func (s *Selector) Classify(p receipt.Product, log history.Log, now time.Time) Tier {
	return s.classify(p, newIndex(log), log, now)
}

func (s *Selector) classify(p receipt.Product, idx index, log history.Log, now time.Time) Tier {
	if !idx.brands[p.Brand] {
		return TierNewBrand
	}
	if !idx.items[itemKey{p.Brand, p.ProductName}] {
		return TierNewItem
	}
	if s.inCooldown(p, log, now) {
		return TierNone
	}
	return TierCooldownExpired
}

// inCooldown reports whether a record newer than the cooldown window shares
// the product's brand and either its name or its SKU. Empty SKUs never match.
func (s *Selector) inCooldown(p receipt.Product, log history.Log, now time.Time) bool {
	cutoff := now.Add(-s.cooldown)
	for _, rec := range log.Reviews {
		if !rec.Time().After(cutoff) {
			continue
		}
		if rec.Brand != p.Brand {
			continue
		}
		if rec.ProductName == p.ProductName || (p.SKU != "" && rec.SKU == p.SKU) {
			return true
		}
	}
	return false
}

type itemKey struct {
	brand string
	name  string
}

type index struct {
	brands map[string]bool
	items  map[itemKey]bool
}

func newIndex(log history.Log) index {
	idx := index{
		brands: make(map[string]bool, len(log.Reviews)),
		items:  make(map[itemKey]bool, len(log.Reviews)),
	}
	for _, rec := range log.Reviews {
		idx.brands[rec.Brand] = true
		idx.items[itemKey{rec.Brand, rec.ProductName}] = true
	}
	return idx
}
