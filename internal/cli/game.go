package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "In-game action commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameVoteCmd())
	cmd.AddCommand(newGameNightActionCmd())
	cmd.AddCommand(newGameReckoningCmd())
	cmd.AddCommand(newGameRecentCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start the game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomResult

			if err := client.Post("/api/v1/rooms/"+args[0]+"/start", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameVoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <code> <target-id>",
		Short: "Vote to eliminate a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"target_id": args[1]}

			if err := client.Post("/api/v1/rooms/"+args[0]+"/vote", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Vote cast")
			return nil
		},
	}
}

func newGameNightActionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "night-action <code> <target-id>",
		Short: "Submit your night action",
		Long: `Submit your role's night action against a target.

The server picks the action from your role: mafia members submit the
team kill, the doctor protects, the detective investigates.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"target_id": args[1]}

			if err := client.Post("/api/v1/rooms/"+args[0]+"/night-action", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Action submitted")
			return nil
		},
	}
}

func newGameReckoningCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reckoning <code> [target-id...]",
		Short: "Submit the bomber's parting choice (up to two targets)",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"target_ids": args[1:]}

			if err := client.Post("/api/v1/rooms/"+args[0]+"/reckoning", req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Reckoning submitted")
			return nil
		},
	}
}

func newGameRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently finished games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games/recent"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result GameRecordList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum records to return")
	return cmd
}
