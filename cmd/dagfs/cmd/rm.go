package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a directory entry and checkpoint",
	Args:  cobra.ExactArgs(1),
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
		parentPath, name, err := splitParent(args[0])
		if err != nil {
			wrapFatalln("rm "+args[0], err)
			return
		}
		parent := root
		if parentPath != "" {
			parent, err = fs.ResolveDir(ctx, root, parentPath)
			if err != nil {
				wrapFatalln("resolve "+parentPath, err)
				return
			}
		}
		if err = parent.Remove(name); err != nil {
			wrapFatalln("rm "+args[0], err)
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
	rootCmd.AddCommand(rmCmd)
}
