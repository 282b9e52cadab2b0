package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/enzymatix/mechvalid/internal/application/validation"
	"github.com/enzymatix/mechvalid/internal/infrastructure/corpusfile"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
)

type validateOutput struct {
	ReactionID string         `json:"reaction_id"`
	RuleScores map[string]int `json:"rule_scores,omitempty"`
	Error      string         `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var attach bool

	cmd := &cobra.Command{
		Use:   "validate REACTION_ID...",
		Short: "Validate reactions against the rule corpus and print rankings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			corpus, closeCorpus, err := buildCorpus(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeCorpus()

			store, closeStore, err := buildStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			policy, err := keyPolicyFromString(cfg.Validator.KeyPolicy)
			if err != nil {
				return err
			}
			rewriter, err := corpusfile.LoadRewrites(ctx, cfg.Corpus.RewritesPath, logger)
			if err != nil {
				return err
			}

			validator := validation.NewValidator(corpus, buildEngine(cfg, logger), store,
				validation.NewMemoryCache(), logger,
				validation.WithKeyPolicy(policy),
				validation.WithRewriter(rewriter),
				validation.WithProjectionCap(cfg.Validator.MaxProjections))

			runner := validation.NewBatchRunner(validator, cfg.Validator.Workers, logger)
			outcomes := runner.Run(ctx, args)

			enc := json.NewEncoder(os.Stdout)
			for _, o := range outcomes {
				out := validateOutput{ReactionID: o.ReactionID}
				if o.Err != nil {
					out.Error = o.Err.Error()
				} else {
					out.RuleScores = o.Ranking.RuleScores()
					if attach {
						if err := store.AttachValidationResult(ctx, o.ReactionID, o.Ranking); err != nil {
							logger.Warn("failed to attach result to graph",
								logging.String("reaction", o.ReactionID),
								logging.Err(err))
						}
					}
				}
				if err := enc.Encode(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&attach, "attach", false, "write rankings back onto the reaction nodes")
	return cmd
}
