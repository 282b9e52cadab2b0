package chemengine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/internal/testutil"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.EngineConfig{BaseURL: srv.URL, Timeout: 5 * time.Second}, testutil.NewRecordingLogger())
}

func TestParseStructure(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/structures/parse", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "InChI=1S/C2H6O", req["identifier"])
		_ = json.NewEncoder(w).Encode(map[string]string{"handle": "st-1"})
	}))

	s, err := client.ParseStructure(context.Background(), "InChI=1S/C2H6O")
	require.NoError(t, err)
	assert.Equal(t, "InChI=1S/C2H6O", s.Raw())
}

func TestParseStructureRejection(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unparseable identifier"})
	}))

	_, err := client.ParseStructure(context.Background(), "garbage")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeStructureParse))
}

func TestCanonicalIdentifierSendsNormalizeAndStereoFlags(t *testing.T) {
	var got map[string]any
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/structures/parse":
			_ = json.NewEncoder(w).Encode(map[string]string{"handle": "st-1"})
		case "/v1/structures/canonical":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_ = json.NewEncoder(w).Encode(map[string]string{"identifier": "InChI=1S/flat"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	s, err := client.ParseStructure(context.Background(), "InChI=1S/stereo")
	require.NoError(t, err)

	canonical, err := client.CanonicalIdentifier(client.Normalize(s), chemistry.ComparisonOptions)
	require.NoError(t, err)
	assert.Equal(t, "InChI=1S/flat", canonical)
	assert.Equal(t, true, got["normalize"])
	assert.Equal(t, true, got["strip_stereo"])
}

func TestCompileAndProjectRule(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/structures/parse":
			_ = json.NewEncoder(w).Encode(map[string]string{"handle": "st-1"})
		case "/v1/rules/compile":
			_ = json.NewEncoder(w).Encode(map[string]string{"handle": "rx-1"})
		case "/v1/rules/project":
			var req map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "rx-1", req["rule"])
			assert.EqualValues(t, 10, req["max_results"])
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": [][]map[string]string{
					{{"handle": "st-9", "identifier": "O=CC"}},
				},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	rule, err := client.CompileRule("[C:1][O:2]>>[C:1]=[O:2]")
	require.NoError(t, err)
	assert.Equal(t, "[C:1][O:2]>>[C:1]=[O:2]", rule.Template())

	s, err := client.ParseStructure(context.Background(), "OCC")
	require.NoError(t, err)

	sets, err := client.ProjectRule(context.Background(), rule, []chemistry.Structure{s}, 10)
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "O=CC", sets[0][0].Raw())
}

func TestProjectRuleRejectsForeignStructures(t *testing.T) {
	client := testClient(t, http.NotFoundHandler())
	rule := CompiledRule{handle: "rx-1", template: "t"}

	_, err := client.ProjectRule(context.Background(), rule, testutil.Structures("OCC"), 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeProjectionFailed))
}

func TestServerErrorSurfacesAsUnavailable(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.CompileRule("t")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeUnavailable))
}

func TestHealth(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/healthz", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	assert.NoError(t, client.Health(context.Background()))
}
