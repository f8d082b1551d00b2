package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score submission and history commands",
	}

	cmd.AddCommand(newScoreSubmitCmd())
	cmd.AddCommand(newScoreListCmd())

	return cmd
}

func newScoreSubmitCmd() *cobra.Command {
	var playerID, score int64

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a score for a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]int64{
				"player_id": playerID,
				"score":     score,
			}
			var result MessageResult

			if err := client.Post(cmd.Context(), "/api/scores", req, &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}

	cmd.Flags().Int64Var(&playerID, "player-id", 0, "Player ID (required)")
	cmd.Flags().Int64Var(&score, "score", 0, "Score value (required, may be zero)")
	_ = cmd.MarkFlagRequired("player-id")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}

func newScoreListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <player-id>",
		Short: "List a player's scores, highest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid player id %q", args[0])
			}

			result := []Score{}
			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/players/%d/scores", id), &result); err != nil {
				return err
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).Print(result)
			return nil
		},
	}
}
