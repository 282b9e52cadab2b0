package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/enzymatix/mechvalid/internal/infrastructure/messaging/kafka"
	validationtypes "github.com/enzymatix/mechvalid/pkg/types/validation"
)

func newSubmitCmd() *cobra.Command {
	var keyPolicy string

	cmd := &cobra.Command{
		Use:   "submit REACTION_ID...",
		Short: "Publish a validation job for the worker fleet",
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
			if _, err := keyPolicyFromString(keyPolicy); err != nil {
				return err
			}

			producer := kafka.NewProducer(cfg.Kafka, logger)
			defer func() { _ = producer.Close() }()

			job := validationtypes.Job{
				JobID:       uuid.New().String(),
				ReactionIDs: args,
				KeyPolicy:   keyPolicy,
				RequestedAt: time.Now().UTC(),
			}
			if err := producer.PublishJob(cmd.Context(), job); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), job.JobID)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPolicy, "key-policy", "", "override the worker's composition-key policy (role_aware|substrate_lookup)")
	return cmd
}
