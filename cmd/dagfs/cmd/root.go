package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dagfs",
	Short: "dagfs versions file trees as content-addressed DAGs",
	Long: `dagfs manages a file tree as a Merkle DAG of content-addressed blocks.

Every checkpoint produces an immutable root CID: identical content maps to
identical blocks, so unchanged data is stored exactly once, and any past
root remains readable forever. The root command group operates on a local
repository anchored by a HEAD file.
`,
}

var config *CLIConfig

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addRepoFlag(rootCmd)
	addBackendFlag(rootCmd)
	addLeafSizeFlag(rootCmd)
	addLogLevelFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("backend", backendLocalFS)
	viper.SetDefault("loglevel", "none")
	if os.Getenv("DAGFS_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("DAGFS_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.dagfs")
		viper.SetConfigName("dagfs")
	}

	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
	var err error
	config, err = newConfig()
	if err != nil {
		logFatalln(err)
	}
	config.setRepoParams(&dagfsFlags)
}
