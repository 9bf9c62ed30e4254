package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Digital-Shane/media-sort/internal/config"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved sort profiles",
	Long: `Profiles store the input, output and flags of a sort run under a name so that
"mediasort sort --profile <name>" can reuse them.`,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a profile from the given flags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := readOverrides(cmd.Flags())
		if err != nil {
			return err
		}
		cfg := config.Default().WithOverrides(o)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := newStore().Save(config.ProfileFrom(args[0], cfg), false); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created profile %s\n", args[0])
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newStore().Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %s\n", args[0])
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the saved profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := newStore().List()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Change the values of a profile",
	Long:  "Rewrite a profile, changing only the values of the flags that are set.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()
		p, err := store.Load(args[0])
		if err != nil {
			return err
		}
		o, err := readOverrides(cmd.Flags())
		if err != nil {
			return err
		}
		cfg := config.Default().WithProfile(p).WithOverrides(o)
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := store.Save(config.ProfileFrom(args[0], cfg), true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated profile %s\n", args[0])
		return nil
	},
}

var profileFlagsCmd = &cobra.Command{
	Use:   "flags <name>",
	Short: "Print the flags stored in a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newStore().Load(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(p.Flags, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directory, unwanted words file and default profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if err := config.WriteDefaultWords(config.WordsPath()); err != nil {
			return err
		}
		if err := os.MkdirAll(config.LogDir(), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}

		store := newStore()
		if store.Exists(config.DefaultProfile) {
			fmt.Fprintf(out, "Profile %s already exists\n", config.DefaultProfile)
		} else {
			o, err := readOverrides(cmd.Flags())
			if err != nil {
				return err
			}
			p := config.ProfileFrom(config.DefaultProfile, config.Default().WithOverrides(o))
			if err := store.Save(p, false); err != nil {
				return err
			}
			fmt.Fprintf(out, "Created profile %s\n", config.DefaultProfile)
		}
		fmt.Fprintf(out, "Data directory: %s\n", config.DataDir())
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{profileCreateCmd, profileEditCmd, profileInitCmd} {
		addSortFlags(c.Flags())
	}
	_ = profileCreateCmd.MarkFlagRequired("input")
	_ = profileCreateCmd.MarkFlagRequired("output")

	profileCmd.AddCommand(profileCreateCmd, profileDeleteCmd, profileListCmd,
		profileEditCmd, profileFlagsCmd, profileInitCmd)
	rootCmd.AddCommand(profileCmd)
}
