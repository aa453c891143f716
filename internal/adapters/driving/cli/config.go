package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change configuration",
	Long: `Reads and writes settings in the configuration file.

Known keys:
  twitch.client_id             application client ID (CLIPPER_CLIENT_ID overrides)
  twitch.requests_per_second   upstream request rate
  download.output_dir          default download directory
  download.max_parallel        concurrent file transfers
  scan.budget_seconds          discovery time budget (5 to 15)
  metrics.textfile             Prometheus textfile written after each command`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

// keyLister is implemented by stores that can enumerate their keys.
type keyLister interface {
	Keys() []string
}

func requireConfigStore() (driven.ConfigStore, error) {
	if configStore == nil {
		return nil, errors.New("config store not configured")
	}
	return configStore, nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	store, err := requireConfigStore()
	if err != nil {
		return err
	}
	lister, ok := store.(keyLister)
	if !ok {
		return errors.New("config store cannot list keys")
	}
	for _, key := range lister.Keys() {
		val, _ := store.Get(key)
		cmd.Printf("%s = %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	store, err := requireConfigStore()
	if err != nil {
		return err
	}
	val, ok := store.Get(args[0])
	if !ok {
		return fmt.Errorf("config key %q is not set", args[0])
	}
	cmd.Println(val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := requireConfigStore()
	if err != nil {
		return err
	}
	key := strings.TrimSpace(args[0])
	if err := store.Set(key, parseConfigValue(args[1])); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s\n", key)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	store, err := requireConfigStore()
	if err != nil {
		return err
	}
	cmd.Println(store.Path())
	return nil
}

// parseConfigValue stores numbers and booleans with their TOML types.
func parseConfigValue(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
