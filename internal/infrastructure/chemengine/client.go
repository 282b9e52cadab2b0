// Package chemengine implements the chemistry engine interface as a client
// to the structure-service sidecar, which wraps the actual cheminformatics
// toolkit behind a small JSON API.
package chemengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// Structure is a server-side structure handle together with the identifier it
// was parsed from.  Normalization is deferred: the flag travels with the
// handle and the sidecar normalizes before canonicalization or projection.
type Structure struct {
	handle     string
	raw        string
	normalized bool
}

// Raw returns the identifier the structure was parsed from.
func (s Structure) Raw() string { return s.raw }

// CompiledRule is a server-side reactor handle.
type CompiledRule struct {
	handle   string
	template string
}

// Template returns the rule template the reactor was compiled from.
func (r CompiledRule) Template() string { return r.template }

// Client talks to the structure service.  It implements chemistry.Engine.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger
}

// NewClient builds a client for the configured sidecar.
func NewClient(cfg config.EngineConfig, logger logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Health checks the sidecar's readiness endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/healthz", nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to build health request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "structure service unreachable")
	}
	defer func() { _, _ = io.Copy(io.Discard, resp.Body); _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.CodeUnavailable, "structure service health returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, request, response any, failCode errors.ErrorCode) error {
	payload, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode engine request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to build engine request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CodeUnavailable, "structure service request failed").
			WithDetail("path=" + path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var fail struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&fail)
		return errors.New(failCode, fail.Error)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Newf(errors.CodeUnavailable, "structure service returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to decode engine response")
	}
	return nil
}

// ParseStructure parses an identifier into a server-side structure handle.
func (c *Client) ParseStructure(ctx context.Context, identifier string) (chemistry.Structure, error) {
	var resp struct {
		Handle string `json:"handle"`
	}
	err := c.post(ctx, "/v1/structures/parse",
		map[string]string{"identifier": identifier}, &resp, errors.CodeStructureParse)
	if err != nil {
		return nil, err
	}
	return Structure{handle: resp.Handle, raw: identifier}, nil
}

// Normalize marks the structure for server-side normalization.  Idempotent.
func (c *Client) Normalize(s chemistry.Structure) chemistry.Structure {
	rs, ok := s.(Structure)
	if !ok {
		return s
	}
	rs.normalized = true
	return rs
}

// CanonicalIdentifier exports the canonical identifier of a structure.
func (c *Client) CanonicalIdentifier(s chemistry.Structure, opts chemistry.CanonicalOptions) (string, error) {
	rs, ok := s.(Structure)
	if !ok {
		return "", errors.Newf(errors.CodeCanonicalization, "structure %q does not belong to this engine", s.Raw())
	}
	var resp struct {
		Identifier string `json:"identifier"`
	}
	err := c.post(context.Background(), "/v1/structures/canonical", map[string]any{
		"handle":       rs.handle,
		"normalize":    rs.normalized,
		"strip_stereo": opts.StripStereochemistry,
	}, &resp, errors.CodeCanonicalization)
	if err != nil {
		return "", err
	}
	return resp.Identifier, nil
}

// CompileRule builds a server-side reactor for the template.
func (c *Client) CompileRule(template string) (chemistry.CompiledRule, error) {
	var resp struct {
		Handle string `json:"handle"`
	}
	err := c.post(context.Background(), "/v1/rules/compile",
		map[string]string{"template": template}, &resp, errors.CodeRuleTemplateInvalid)
	if err != nil {
		return nil, err
	}
	return CompiledRule{handle: resp.Handle, template: template}, nil
}

// ProjectRule applies a compiled rule to the ordered inputs.
func (c *Client) ProjectRule(ctx context.Context, rule chemistry.CompiledRule, inputs []chemistry.Structure, maxResults int) ([][]chemistry.Structure, error) {
	if len(inputs) == 0 {
		return nil, errors.New(errors.CodeNoSubstrates, "no input structures")
	}
	cr, ok := rule.(CompiledRule)
	if !ok {
		return nil, errors.Newf(errors.CodeProjectionFailed, "rule %q does not belong to this engine", rule.Template())
	}

	handles := make([]string, 0, len(inputs))
	for _, in := range inputs {
		rs, ok := in.(Structure)
		if !ok {
			return nil, errors.Newf(errors.CodeProjectionFailed, "input %q does not belong to this engine", in.Raw())
		}
		handles = append(handles, rs.handle)
	}

	var resp struct {
		Results [][]struct {
			Handle     string `json:"handle"`
			Identifier string `json:"identifier"`
		} `json:"results"`
	}
	err := c.post(ctx, "/v1/rules/project", map[string]any{
		"rule":        cr.handle,
		"inputs":      handles,
		"max_results": maxResults,
	}, &resp, errors.CodeProjectionFailed)
	if err != nil {
		return nil, err
	}

	out := make([][]chemistry.Structure, 0, len(resp.Results))
	for _, set := range resp.Results {
		structures := make([]chemistry.Structure, 0, len(set))
		for _, item := range set {
			structures = append(structures, Structure{handle: item.Handle, raw: item.Identifier})
		}
		out = append(out, structures)
	}
	return out, nil
}

var _ chemistry.Engine = (*Client)(nil)

// String describes the client for startup logs.
func (c *Client) String() string {
	return fmt.Sprintf("structure-service@%s (timeout %s)", c.baseURL, c.http.Timeout)
}
