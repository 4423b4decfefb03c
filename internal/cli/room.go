package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomConfigCmd())
	cmd.AddCommand(newRoomAddBotCmd())
	cmd.AddCommand(newRoomRemoveBotCmd())
	cmd.AddCommand(newRoomResetCmd())

	return cmd
}

// configFlags holds the rule configuration flags shared by create and config
type configFlags struct {
	maxPlayers   int
	mafiaCount   int
	enableBomber bool
	enableSpy    bool
	enablePolice bool
	nightSeconds int
	daySeconds   int
}

func (f *configFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxPlayers, "max-players", 0, "Maximum seats")
	cmd.Flags().IntVar(&f.mafiaCount, "mafia", 0, "Number of mafia")
	cmd.Flags().BoolVar(&f.enableBomber, "bomber", false, "Enable the bomber role")
	cmd.Flags().BoolVar(&f.enableSpy, "spy", false, "Enable the spy role")
	cmd.Flags().BoolVar(&f.enablePolice, "police", false, "Enable the police roles")
	cmd.Flags().IntVar(&f.nightSeconds, "night-seconds", 0, "Night phase length")
	cmd.Flags().IntVar(&f.daySeconds, "day-seconds", 0, "Day phase length")
}

func (f *configFlags) body() map[string]any {
	cfg := map[string]any{}
	if f.maxPlayers > 0 {
		cfg["max_players"] = f.maxPlayers
	}
	if f.mafiaCount > 0 {
		cfg["mafia_count"] = f.mafiaCount
	}
	if f.enableBomber {
		cfg["enable_bomber"] = true
	}
	if f.enableSpy {
		cfg["enable_spy"] = true
	}
	if f.enablePolice {
		cfg["enable_police"] = true
	}
	if f.nightSeconds > 0 {
		cfg["night_seconds"] = f.nightSeconds
	}
	if f.daySeconds > 0 {
		cfg["day_seconds"] = f.daySeconds
	}
	return cfg
}

func newRoomCreateCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"config": flags.body()}
			var result RoomResult

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a room's public state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomResult

			if err := client.Get("/api/v1/rooms/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomResult

			if err := client.Post("/api/v1/rooms/"+args[0]+"/join", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post("/api/v1/rooms/"+args[0]+"/leave", nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Left room " + args[0])
			return nil
		},
	}
}

func newRoomConfigCmd() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "config <code>",
		Short: "Update a room's rule configuration (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"config": flags.body()}
			var result RoomResult

			if err := client.Patch("/api/v1/rooms/"+args[0]+"/config", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newRoomAddBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "add-bot <code>",
		Short: "Seat a bot in the room (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{}
			if strategy != "" {
				req["strategy"] = strategy
			}
			var result BotAddedResult

			if err := client.Post("/api/v1/rooms/"+args[0]+"/bots", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Bot strategy (default: random)")
	return cmd
}

func newRoomRemoveBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-bot <code> <bot-id>",
		Short: "Unseat a bot (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete("/api/v1/rooms/" + args[0] + "/bots/" + args[1]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Removed bot %s from room %s", args[1], args[0]))
			return nil
		},
	}
}

func newRoomResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <code>",
		Short: "Return a finished room to the lobby (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RoomResult

			if err := client.Post("/api/v1/rooms/"+args[0]+"/reset", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
