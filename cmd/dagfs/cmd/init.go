package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a repository",
	Long: `Initialize a repository in the directory given by --repo.

An empty root directory is checkpointed and anchored as HEAD.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, err := openRepo()
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer repo.Close()

		if repo.initialized() {
			wrapFatalln("repository at "+repo.dir+" is already initialized", nil)
			return
		}
		root := fs.NewDir(repo.store, repo.fsOpts...)
		c, err := repo.commitRoot(ctx, root)
		if err != nil {
			wrapFatalln("initialize repository", err)
			return
		}
		infoLogger.Println("initialized repository at", repo.dir)
		infoLogger.Println(c.String())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
