package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/dlogger"
)

const (
	backendLocalFS = "localfs"
	backendBadger  = "badger"
)

type flagsT struct {
	repo struct {
		Dir      string
		Backend  string
		LeafSize string
	}
	write struct {
		Source string
	}
	log struct {
		Max int
	}
	root struct {
		logLevel string
	}
}

var dagfsFlags = flagsT{}

func addRepoFlag(cmd *cobra.Command) string {
	const repo = "repo"
	cmd.PersistentFlags().StringVar(&dagfsFlags.repo.Dir, repo, ".dagfs",
		"Path to the repository directory")
	return repo
}

func addBackendFlag(cmd *cobra.Command) string {
	const backend = "backend"
	cmd.PersistentFlags().StringVar(&dagfsFlags.repo.Backend, backend, "",
		"Block store backend to use: localfs or badger")
	return backend
}

func addLeafSizeFlag(cmd *cobra.Command) string {
	const leafsize = "leafsize"
	cmd.PersistentFlags().StringVar(&dagfsFlags.repo.LeafSize, leafsize, "",
		"Chunk leaf size for file content, e.g. 2M or 64k")
	return leafsize
}

func addLogLevelFlag(cmd *cobra.Command) string {
	const loglevel = "loglevel"
	cmd.PersistentFlags().StringVar(&dagfsFlags.root.logLevel, loglevel, "",
		"Log level for this command: "+dlogger.LogLevelInfo+", "+dlogger.LogLevelDebug+" or "+dlogger.LogLevelNone)
	return loglevel
}

func addSourceFlag(cmd *cobra.Command) string {
	const source = "source"
	cmd.Flags().StringVar(&dagfsFlags.write.Source, source, "",
		"Read content from this local file instead of stdin")
	return source
}

func addMaxVersionsFlag(cmd *cobra.Command) string {
	const max = "max"
	cmd.Flags().IntVar(&dagfsFlags.log.Max, max, 0,
		"Limit the number of versions shown, 0 means all")
	return max
}
