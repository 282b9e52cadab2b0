package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/enzymatix/mechvalid/internal/domain/rule"
)

func newCorpusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Inspect the rule corpus",
	}
	cmd.AddCommand(newCorpusStatsCmd())
	return cmd
}

func newCorpusStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print rule counts by curation status and substrate arity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			corpus, closeCorpus, err := buildCorpus(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closeCorpus()

			byStatus := map[rule.CurationStatus]int{}
			byArity := map[int]int{}
			for _, r := range corpus.Rules() {
				byStatus[r.Status]++
				byArity[r.SubstrateArity]++
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rules: %d\n\n", corpus.Len())

			fmt.Fprintln(out, "by status:")
			statuses := make([]string, 0, len(byStatus))
			for s := range byStatus {
				statuses = append(statuses, string(s))
			}
			sort.Strings(statuses)
			for _, s := range statuses {
				fmt.Fprintf(out, "  %-24s %d\n", s, byStatus[rule.CurationStatus(s)])
			}

			fmt.Fprintln(out, "\nby substrate arity:")
			arities := make([]int, 0, len(byArity))
			for a := range byArity {
				arities = append(arities, a)
			}
			sort.Ints(arities)
			for _, a := range arities {
				fmt.Fprintf(out, "  %-24d %d\n", a, byArity[a])
			}
			return nil
		},
	}
}
