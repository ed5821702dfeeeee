package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hargabyte/rsfix/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .rsfix/config.yaml with the default settings",
	Long: `Create the .rsfix directory and a config.yaml holding the default settings
in the current directory. Commands run anywhere below it pick the file up.

Examples:
  rsfix init          # Initialize in current directory
  rsfix init --force  # Overwrite an existing config.yaml`,
	RunE: runInit,
}

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configFile := filepath.Join(cwd, config.ConfigDirName, config.ConfigFileName)
	_, err = os.Stat(configFile)
	if err == nil {
		if !initForce {
			relPath, _ := filepath.Rel(cwd, configFile)
			fmt.Fprintf(cmd.OutOrStdout(), "Already initialized at %s\n", relPath)
			return nil
		}
		if err := os.Remove(configFile); err != nil {
			return fmt.Errorf("removing existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking config path: %w", err)
	}

	path, err := config.SaveDefault(cwd)
	if err != nil {
		return err
	}
	relPath, _ := filepath.Rel(cwd, path)
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized rsfix config at %s\n", relPath)
	return nil
}
