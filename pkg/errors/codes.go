package errors

import "strings"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeUnknown      ErrorCode = "COMMON_000"
	CodeInternal     ErrorCode = "COMMON_001"
	CodeInvalidParam ErrorCode = "COMMON_002"
	CodeNotFound     ErrorCode = "COMMON_003"
	CodeConflict     ErrorCode = "COMMON_004"
	CodeUnavailable  ErrorCode = "COMMON_005"
	CodeTimeout      ErrorCode = "COMMON_006"

	CodeOK ErrorCode = "OK"
)

// Rule corpus error codes.
const (
	// CodeCorpusLoad: the backing reference data for the rule corpus is
	// missing or malformed.  Fatal to the whole run.
	CodeCorpusLoad ErrorCode = "CORPUS_001"

	// CodeRuleTemplateInvalid: a rule template could not be compiled by the
	// chemistry engine.  The rule is skipped, never fatal.
	CodeRuleTemplateInvalid ErrorCode = "CORPUS_002"
)

// Chemistry error codes.
const (
	// CodeChemicalResolution: a real (non-placeholder) chemical has no
	// structure identifier in the knowledge store.  Fatal for the single
	// reaction being validated; never fatal to the batch.
	CodeChemicalResolution ErrorCode = "CHEM_001"

	// CodeStructureParse: the chemistry engine could not parse a structure
	// identifier.
	CodeStructureParse ErrorCode = "CHEM_002"

	// CodeCanonicalization: the chemistry engine could not export a canonical
	// comparison identifier for a structure.
	CodeCanonicalization ErrorCode = "CHEM_003"

	// CodeChemicalNotFound: a chemical id is absent from the knowledge store.
	CodeChemicalNotFound ErrorCode = "CHEM_004"
)

// Projection error codes.
const (
	// CodeProjectionFailed: the chemistry engine failed while projecting a
	// rule onto a substrate multiset.  Recorded as a non-match.
	CodeProjectionFailed ErrorCode = "PROJ_001"

	// CodeNoSubstrates: projection was requested with an empty substrate list.
	CodeNoSubstrates ErrorCode = "PROJ_002"
)

// Validation error codes.
const (
	// CodeReactionNotFound: the reaction id is absent from the knowledge store.
	CodeReactionNotFound ErrorCode = "VAL_001"

	// CodeValidationFailed: validation of one reaction could not complete
	// (e.g. a real product failed canonicalization).  Per-reaction only.
	CodeValidationFailed ErrorCode = "VAL_002"
)

// Expansion error codes.
const (
	CodeExpansionFailed ErrorCode = "EXP_001"
)

// Infrastructure error codes.
const (
	CodeDatabaseError ErrorCode = "INFRA_001"
	CodeCacheError    ErrorCode = "INFRA_002"
	CodeMessageQueue  ErrorCode = "INFRA_003"
	CodeGraphStore    ErrorCode = "INFRA_004"
	CodeSerialization ErrorCode = "INFRA_005"
)

// errorCodeMessage maps ErrorCodes to default messages.
var errorCodeMessage = map[ErrorCode]string{
	CodeUnknown:      "unknown error",
	CodeInternal:     "internal error",
	CodeInvalidParam: "invalid parameter",
	CodeNotFound:     "resource not found",
	CodeConflict:     "resource conflict",
	CodeUnavailable:  "service unavailable",
	CodeTimeout:      "operation timed out",

	CodeCorpusLoad:          "rule corpus load failed",
	CodeRuleTemplateInvalid: "rule template could not be compiled",

	CodeChemicalResolution: "chemical structure could not be resolved",
	CodeStructureParse:     "structure identifier could not be parsed",
	CodeCanonicalization:   "canonical identifier export failed",
	CodeChemicalNotFound:   "chemical not found",

	CodeProjectionFailed: "rule projection failed",
	CodeNoSubstrates:     "no substrates provided for projection",

	CodeReactionNotFound: "reaction not found",
	CodeValidationFailed: "reaction validation failed",

	CodeExpansionFailed: "seed expansion failed",

	CodeDatabaseError: "database error",
	CodeCacheError:    "cache error",
	CodeMessageQueue:  "message queue error",
	CodeGraphStore:    "knowledge graph store error",
	CodeSerialization: "serialization failed",
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := errorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// ModuleForCode returns the module prefix of an ErrorCode ("CHEM", "PROJ", ...),
// used as a metric label by monitoring code.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
