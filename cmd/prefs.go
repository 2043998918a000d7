package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change saved preferences",
}

var prefsMuteCmd = &cobra.Command{
	Use:       "mute [on|off]",
	Short:     "Show or set whether videos start muted",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		prefs := rt.store.PrefsRepo()
		if len(args) == 1 {
			if err := prefs.SetMuted(cmd.Context(), args[0] == "on"); err != nil {
				return fmt.Errorf("save preference: %w", err)
			}
		}

		muted, err := prefs.Muted(cmd.Context())
		if err != nil {
			return fmt.Errorf("read preference: %w", err)
		}
		state := "off"
		if muted {
			state = "on"
		}
		fmt.Println("mute:", state)
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsMuteCmd)
}
