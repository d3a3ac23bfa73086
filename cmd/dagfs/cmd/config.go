package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// bug in viper? Need to keep names of fields the same as the serialized names..
	Repo     string `json:"repo" yaml:"repo"`         // Repository directory
	Backend  string `json:"backend" yaml:"backend"`   // Block store backend (localfs or badger)
	LeafSize string `json:"leafsize" yaml:"leafsize"` // Chunk leaf size, e.g. 2M
	LogLevel string `json:"loglevel" yaml:"loglevel"` // Default log level
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// setRepoParams fills flags left unset from the configuration file.
func (c *CLIConfig) setRepoParams(flags *flagsT) {
	if flags.repo.Backend == "" {
		flags.repo.Backend = c.Backend
	}
	if flags.repo.LeafSize == "" {
		flags.repo.LeafSize = c.LeafSize
	}
	if flags.root.logLevel == "" {
		flags.root.logLevel = c.LogLevel
	}
	if c.Repo != "" && flags.repo.Dir == ".dagfs" {
		flags.repo.Dir = c.Repo
	}
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the dagfs config",
	Long: `Commands to manage the dagfs CLI config.

The configuration holds the flags that rarely change across runs, such as
the repository location and the block store backend.`,
}

var configGen = &cobra.Command{
	Use:   "generate",
	Short: "Generate a config file from the current flags",
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			wrapFatalln("could not get home directory", err)
			return
		}
		out := CLIConfig{
			Repo:     dagfsFlags.repo.Dir,
			Backend:  dagfsFlags.repo.Backend,
			LeafSize: dagfsFlags.repo.LeafSize,
			LogLevel: dagfsFlags.root.logLevel,
		}
		b, err := yaml.Marshal(out)
		if err != nil {
			wrapFatalln("could not serialize config", err)
			return
		}
		dir := filepath.Join(home, ".dagfs")
		if err = os.MkdirAll(dir, 0700); err != nil {
			wrapFatalln("could not create config directory", err)
			return
		}
		target := filepath.Join(dir, "dagfs.yaml")
		if err = os.WriteFile(target, b, 0600); err != nil {
			wrapFatalln("could not write config file", err)
			return
		}
		infoLogger.Println("config written to", target)
	},
}

func init() {
	configCmd.AddCommand(configGen)
	rootCmd.AddCommand(configCmd)
}
