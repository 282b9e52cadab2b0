// Package corpusfile loads the curated rule corpus from a JSON file, the
// format the curation tooling exports.
package corpusfile

import (
	"context"
	"encoding/json"
	"os"

	"github.com/enzymatix/mechvalid/internal/domain/rule"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// Source reads rules from a JSON array file.  It implements rule.Source.
type Source struct {
	path   string
	logger logging.Logger
}

// NewSource builds a Source for the given file path.
func NewSource(path string, logger logging.Logger) *Source {
	return &Source{path: path, logger: logger}
}

// LoadRules parses the corpus file.  File order is preserved; it determines
// ranking bucket order the same way row order does for the database source.
func (s *Source) LoadRules(_ context.Context) ([]*rule.Rule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCorpusLoad, "failed to read corpus file").
			WithDetail("path=" + s.path)
	}

	var rules []*rule.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, errors.Wrap(err, errors.CodeCorpusLoad, "corpus file is not a JSON rule array").
			WithDetail("path=" + s.path)
	}
	for _, r := range rules {
		if !r.Status.Valid() {
			s.logger.Warn("rule carries unrecognised curation status",
				logging.Int64("rule", r.ID),
				logging.String("status", string(r.Status)))
		}
	}

	s.logger.Info("rule corpus loaded from file",
		logging.String("path", s.path),
		logging.Int("rules", len(rules)))
	return rules, nil
}
