package cli

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enzymatix/mechvalid/internal/application/expansion"
	"github.com/enzymatix/mechvalid/internal/domain/chemistry"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
)

type seedOutput struct {
	RuleID    int64    `json:"rule_id"`
	RuleName  string   `json:"rule_name,omitempty"`
	Substrate string   `json:"substrate"`
	Products  []string `json:"products,omitempty"`
}

func newExpandCmd() *cobra.Command {
	var moleculesPath string
	var apply bool

	cmd := &cobra.Command{
		Use:   "expand --molecules FILE",
		Short: "Enumerate prediction seeds for single-substrate rules",
		Long: `Pairs every usable single-substrate rule with every molecule in the input
file (one structure identifier per line) and prints one seed per line.  With
--apply, each seed is also projected and the candidate products are included.`,
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

			engine := buildEngine(cfg, logger)

			file, err := os.Open(moleculesPath)
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()

			var molecules []chemistry.Structure
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				identifier := strings.TrimSpace(scanner.Text())
				if identifier == "" || strings.HasPrefix(identifier, "#") {
					continue
				}
				s, err := engine.ParseStructure(ctx, identifier)
				if err != nil {
					logger.Warn("skipping unparseable molecule",
						logging.String("identifier", identifier),
						logging.Err(err))
					continue
				}
				molecules = append(molecules, engine.Normalize(s))
			}
			if err := scanner.Err(); err != nil {
				return err
			}

			expander := expansion.NewSingleSubstrateExpander(corpus, engine, logger)
			enc := json.NewEncoder(os.Stdout)

			return expander.EachSeed(ctx, molecules, func(seed expansion.PredictionSeed) error {
				out := seedOutput{
					RuleID:    seed.Rule.ID,
					RuleName:  seed.Rule.Name,
					Substrate: seed.Substrates[0].Raw(),
				}
				if apply {
					sets, err := expander.Apply(ctx, seed)
					if err != nil {
						logger.Debug("seed projection failed",
							logging.Int64("rule", seed.Rule.ID),
							logging.Err(err))
					}
					for _, set := range sets {
						for _, product := range set {
							out.Products = append(out.Products, product.Raw())
						}
					}
				}
				return enc.Encode(out)
			})
		},
	}
	cmd.Flags().StringVar(&moleculesPath, "molecules", "", "file with one structure identifier per line")
	cmd.Flags().BoolVar(&apply, "apply", false, "project each seed and include candidate products")
	_ = cmd.MarkFlagRequired("molecules")
	return cmd
}
