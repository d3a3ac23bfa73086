package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory and checkpoint",
	Long: `Create the directory at <path> together with any missing parents,
then checkpoint the tree and move HEAD to the new root.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, err := openRepo()
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer repo.Close()

		root, err := repo.loadRoot(ctx)
		if err != nil {
			wrapFatalln("load root", err)
			return
		}
		if _, err = fs.EnsureDir(ctx, root, args[0]); err != nil {
			wrapFatalln("mkdir "+args[0], err)
			return
		}
		c, err := repo.commitRoot(ctx, root)
		if err != nil {
			wrapFatalln("checkpoint", err)
			return
		}
		infoLogger.Println(c.String())
	},
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}
