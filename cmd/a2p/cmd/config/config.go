package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"audio2pdf/cmd/a2p/cmd/shared"
	appconfig "audio2pdf/internal/config"
)

var force bool

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	Cmd.AddCommand(initCmd)
	Cmd.AddCommand(showCmd)
}

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the a2p configuration file",
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with default values",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appconfig.GetDefaultConfigPath()
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}

		if err := appconfig.Save(appconfig.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := appconfig.Load(shared.ConfigPath)
		if err != nil {
			return err
		}
		if cfg.OpenAI.APIKey != "" {
			cfg.OpenAI.APIKey = "***"
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}
