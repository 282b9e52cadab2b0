package corpusfile

import (
	"context"
	"encoding/json"
	"os"

	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
)

// LoadRewrites reads the curated identifier-replacement table: a JSON object
// mapping identifiers the chemistry engine cannot process to substitutes.  An
// empty path yields the identity rewriter.
func LoadRewrites(_ context.Context, path string, logger logging.Logger) (chemistry.IdentifierRewriter, error) {
	if path == "" {
		return chemistry.NewIdentityRewriter(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeCorpusLoad, "failed to read rewrites file").
			WithDetail("path=" + path)
	}
	var replacements map[string]string
	if err := json.Unmarshal(data, &replacements); err != nil {
		return nil, errors.Wrap(err, errors.CodeCorpusLoad, "rewrites file is not a JSON string map").
			WithDetail("path=" + path)
	}
	logger.Info("identifier rewrites loaded",
		logging.String("path", path),
		logging.Int("entries", len(replacements)))
	return chemistry.NewMapRewriter(replacements), nil
}
