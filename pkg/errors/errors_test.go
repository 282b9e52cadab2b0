package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(CodeCorpusLoad, "corpus file missing")
	require.NotNil(t, err)
	assert.Equal(t, CodeCorpusLoad, err.Code)
	assert.Contains(t, err.Error(), "CORPUS_001")
	assert.Contains(t, err.Error(), "corpus file missing")
	assert.NotEmpty(t, err.Stack)
}

func TestErrorFormatIncludesDetail(t *testing.T) {
	err := New(CodeChemicalResolution, "no structure").WithDetail("chem=42")
	assert.Equal(t, "[CHEM_001] no structure: chem=42", err.Error())
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk gone")
	err := Wrap(cause, CodeDatabaseError, "query failed")
	require.NotNil(t, err)
	assert.Equal(t, CodeDatabaseError, err.Code)
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeDatabaseError, "ignored"))
}

func TestWrapWithUnknownCodePreservesOriginalCode(t *testing.T) {
	inner := New(CodeProjectionFailed, "engine blew up")
	outer := Wrap(inner, CodeUnknown, "while scoring rule")
	assert.Equal(t, CodeProjectionFailed, outer.Code)
}

func TestIsCodeTraversesChain(t *testing.T) {
	inner := New(CodeStructureParse, "bad identifier")
	outer := fmt.Errorf("scoring: %w", inner)
	assert.True(t, IsCode(outer, CodeStructureParse))
	assert.False(t, IsCode(outer, CodeCorpusLoad))
	assert.False(t, IsCode(nil, CodeStructureParse))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(New(CodeReactionNotFound, "gone")))
	assert.True(t, IsNotFound(New(CodeChemicalNotFound, "gone")))
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.False(t, IsNotFound(New(CodeProjectionFailed, "bang")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestIsRecoverableCoversLocalFailures(t *testing.T) {
	for _, code := range []ErrorCode{
		CodeStructureParse,
		CodeCanonicalization,
		CodeProjectionFailed,
		CodeRuleTemplateInvalid,
		CodeNoSubstrates,
	} {
		assert.True(t, IsRecoverable(New(code, "x")), "code %s", code)
	}
	assert.False(t, IsRecoverable(New(CodeChemicalResolution, "x")))
	assert.False(t, IsRecoverable(New(CodeCorpusLoad, "x")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(errors.New("plain")))
	assert.Equal(t, CodeCacheError, GetCode(New(CodeCacheError, "x")))
}

func TestWithDetailOnNilReceiver(t *testing.T) {
	var err *AppError
	assert.Nil(t, err.WithDetail("ignored"))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CHEM", ModuleForCode(CodeStructureParse))
	assert.Equal(t, "PROJ", ModuleForCode(CodeProjectionFailed))
	assert.Equal(t, "OK", ModuleForCode(CodeOK))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "rule corpus load failed", DefaultMessageForCode(CodeCorpusLoad))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_999")))
}
