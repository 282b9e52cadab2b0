package chemistry

import "strings"

// placeholderMarker flags non-physical placeholder chemicals in the knowledge
// store.  Such entries stand in for abstract or unresolvable species and are
// skipped during validation instead of being treated as errors.
const placeholderMarker = "FAKE"

// IsPlaceholder reports whether a structure identifier denotes a placeholder
// (non-physical) chemical.
func IsPlaceholder(identifier string) bool {
	return strings.Contains(identifier, placeholderMarker)
}
