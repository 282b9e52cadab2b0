package reaction

import (
	"sort"
	"strconv"
	"strings"
)

// CompositionKey is the canonical representation of a reaction's substrate and
// product coefficient mappings.  Two reactions with equal keys are scored
// identically against a rule corpus by policy: rules are chemistry-pure and
// ignore cofactors, so identical compositions cannot diverge.  That is a
// policy trade-off of this engine, not a general chemical truth.
type CompositionKey string

// KeyPolicy selects how product-side coefficients enter the key.  The
// reference implementation of this engine read the substrate-side coefficient
// for both sides, which effectively ignores product stoichiometry for cache
// purposes; the bug pattern is preserved as an explicit policy so its effect
// can be tested and chosen deliberately.
type KeyPolicy int

const (
	// KeyPolicyRoleAware reads each side's coefficients through its own role.
	KeyPolicyRoleAware KeyPolicy = iota

	// KeyPolicySubstrateLookup reproduces the legacy behavior: product
	// coefficients are read through the substrate-side accessor, yielding 0
	// for any product that is not also a substrate.
	KeyPolicySubstrateLookup
)

func (p KeyPolicy) String() string {
	if p == KeyPolicySubstrateLookup {
		return "substrate_lookup"
	}
	return "role_aware"
}

// KeyFor builds the composition key for a reaction under the given policy.
// The key is a deterministic string: ids sorted lexicographically per side,
// "id=coeff" pairs joined by commas, sides joined by "|".
func KeyFor(o *Observed, policy KeyPolicy) CompositionKey {
	var sb strings.Builder
	sb.WriteString("s:")
	writeSide(&sb, o.Substrates(), func(id ChemicalID) int {
		return o.Coefficient(id, RoleSubstrate)
	})
	sb.WriteString("|p:")
	productRole := RoleProduct
	if policy == KeyPolicySubstrateLookup {
		productRole = RoleSubstrate
	}
	writeSide(&sb, o.Products(), func(id ChemicalID) int {
		return o.Coefficient(id, productRole)
	})
	return CompositionKey(sb.String())
}

func writeSide(sb *strings.Builder, parts []Participant, coeff func(ChemicalID) int) {
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, string(p.ID))
	}
	sort.Strings(ids)
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(id)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(coeff(ChemicalID(id))))
	}
}
