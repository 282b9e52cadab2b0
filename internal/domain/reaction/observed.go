// Package reaction provides the domain model for observed reactions, the
// composition key used to cache validation results, and the ranked
// score-to-rules structure a validation run produces.
package reaction

// ChemicalID identifies a chemical in the knowledge store.
type ChemicalID string

// Role distinguishes the two sides of a reaction.  Cofactors are excluded
// from the model before a reaction reaches this package.
type Role int

const (
	RoleSubstrate Role = iota
	RoleProduct
)

func (r Role) String() string {
	if r == RoleProduct {
		return "product"
	}
	return "substrate"
}

// Participant is one chemical on one side of a reaction together with its
// stoichiometric coefficient.
type Participant struct {
	ID ChemicalID `json:"id"`
	// Coefficient is always at least 1; see AddSubstrate / AddProduct.
	Coefficient int `json:"coefficient"`
}

// Observed is a cofactor-stripped reaction read from the knowledge store.
// Participants keep insertion order, which must be deterministic across reads
// of the same reaction for caching to behave.  Observed is read-only input to
// validation and is never mutated by the core.
type Observed struct {
	id         string
	substrates []Participant
	products   []Participant
	coeff      map[ChemicalID][2]int // per-id coefficient by role
}

// NewObserved constructs an empty reaction with the given knowledge-store id.
func NewObserved(id string) *Observed {
	return &Observed{
		id:    id,
		coeff: make(map[ChemicalID][2]int),
	}
}

// ID returns the knowledge-store reaction id.
func (o *Observed) ID() string { return o.id }

// AddSubstrate appends a substrate.  A coefficient below 1 is recorded as 1:
// the store occasionally carries null coefficients and one copy is the only
// sensible reading.
func (o *Observed) AddSubstrate(id ChemicalID, coefficient int) *Observed {
	if coefficient < 1 {
		coefficient = 1
	}
	o.substrates = append(o.substrates, Participant{ID: id, Coefficient: coefficient})
	c := o.coeff[id]
	c[RoleSubstrate] = coefficient
	o.coeff[id] = c
	return o
}

// AddProduct appends a product, with the same coefficient clamping as
// AddSubstrate.
func (o *Observed) AddProduct(id ChemicalID, coefficient int) *Observed {
	if coefficient < 1 {
		coefficient = 1
	}
	o.products = append(o.products, Participant{ID: id, Coefficient: coefficient})
	c := o.coeff[id]
	c[RoleProduct] = coefficient
	o.coeff[id] = c
	return o
}

// Substrates returns the substrate participants in insertion order.  The
// slice is shared; callers must treat it as read-only.
func (o *Observed) Substrates() []Participant { return o.substrates }

// Products returns the product participants in insertion order, read-only.
func (o *Observed) Products() []Participant { return o.products }

// Coefficient returns the stoichiometric coefficient for the chemical in the
// given role, or 0 when the chemical does not appear in that role.  All
// coefficient lookups go through this single accessor so the composition-key
// policy (see KeyPolicy) is a one-line choice rather than scattered logic.
func (o *Observed) Coefficient(id ChemicalID, role Role) int {
	return o.coeff[id][role]
}
