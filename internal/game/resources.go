package game

import "fmt"

// Resource is one of the five tradeable resource kinds.
type Resource string

const (
	Brick  Resource = "brick"
	Lumber Resource = "lumber"
	Wool   Resource = "wool"
	Grain  Resource = "grain"
	Ore    Resource = "ore"
)

// ResourceKinds lists every resource in a stable order.
var ResourceKinds = []Resource{Brick, Lumber, Wool, Grain, Ore}

// Resources is a bundle of non-negative resource counts.
type Resources struct {
	Brick  int `json:"brick"`
	Lumber int `json:"lumber"`
	Wool   int `json:"wool"`
	Grain  int `json:"grain"`
	Ore    int `json:"ore"`
}

// Get returns the count for a resource kind.
func (r Resources) Get(kind Resource) int {
	switch kind {
	case Brick:
		return r.Brick
	case Lumber:
		return r.Lumber
	case Wool:
		return r.Wool
	case Grain:
		return r.Grain
	case Ore:
		return r.Ore
	}
	return 0
}

// Add adjusts the count for a resource kind by delta.
func (r *Resources) Add(kind Resource, delta int) {
	switch kind {
	case Brick:
		r.Brick += delta
	case Lumber:
		r.Lumber += delta
	case Wool:
		r.Wool += delta
	case Grain:
		r.Grain += delta
	case Ore:
		r.Ore += delta
	}
}

// Total returns the number of resource cards in the bundle.
func (r Resources) Total() int {
	return r.Brick + r.Lumber + r.Wool + r.Grain + r.Ore
}

// IsZero reports whether the bundle is empty.
func (r Resources) IsZero() bool {
	return r.Total() == 0
}

// Covers reports whether every count in r is at least the matching count in
// cost.
func (r Resources) Covers(cost Resources) bool {
	for _, kind := range ResourceKinds {
		if r.Get(kind) < cost.Get(kind) {
			return false
		}
	}
	return true
}

// Plus returns r with other added component-wise.
func (r Resources) Plus(other Resources) Resources {
	for _, kind := range ResourceKinds {
		r.Add(kind, other.Get(kind))
	}
	return r
}

// Minus returns r with other subtracted component-wise. Callers must check
// Covers first; the ledger never allows negative balances.
func (r Resources) Minus(other Resources) Resources {
	for _, kind := range ResourceKinds {
		r.Add(kind, -other.Get(kind))
	}
	return r
}

func (r Resources) String() string {
	return fmt.Sprintf("brick=%d lumber=%d wool=%d grain=%d ore=%d", r.Brick, r.Lumber, r.Wool, r.Grain, r.Ore)
}

// bankStock returns the bank's opening resource stock for a board size.
func bankStock(size BoardSize) Resources {
	per := 19
	if size == SizeExtended {
		per = 24
	}
	return Resources{Brick: per, Lumber: per, Wool: per, Grain: per, Ore: per}
}

// BankState is the shared resource pool and the remaining dev-card deck.
type BankState struct {
	Resources Resources     `json:"resources"`
	DevCards  []DevCardType `json:"devCards"`
}

// debitPlayer removes cost from a player's hand, failing without mutation if
// the player cannot cover it.
func debitPlayer(p *Player, cost Resources, what string) error {
	if !p.Resources.Covers(cost) {
		return &ResourceError{Reason: fmt.Sprintf("insufficient resources to %s", what)}
	}
	p.Resources = p.Resources.Minus(cost)
	return nil
}

func creditPlayer(p *Player, amount Resources) {
	p.Resources = p.Resources.Plus(amount)
}

// debitBank removes amount from the bank pool, failing without mutation if the
// stock cannot cover it.
func (b *BankState) debit(amount Resources) error {
	if !b.Resources.Covers(amount) {
		return &ResourceError{Reason: "bank has insufficient resources", Bank: true}
	}
	b.Resources = b.Resources.Minus(amount)
	return nil
}

func (b *BankState) credit(amount Resources) {
	b.Resources = b.Resources.Plus(amount)
}

// single returns a bundle holding count units of one resource kind.
func single(kind Resource, count int) Resources {
	var r Resources
	r.Add(kind, count)
	return r
}
