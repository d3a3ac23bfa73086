package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var linkCmd = &cobra.Command{
	Use:   "link <path> <target>",
	Short: "Create a symbolic link and checkpoint",
	Long: `Create a symbolic link at <path> pointing at <target>. A target
with a leading slash resolves from the root, anything else resolves from
the directory holding the link. The target is not required to exist.`,
	Args: cobra.ExactArgs(2),
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
			wrapFatalln("link "+args[0], err)
			return
		}
		parent := root
		if parentPath != "" {
			parent, err = fs.EnsureDir(ctx, root, parentPath)
			if err != nil {
				wrapFatalln("ensure "+parentPath, err)
				return
			}
		}
		if _, err = parent.CreateSymlink(name, args[1]); err != nil {
			wrapFatalln("link "+args[0], err)
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
	rootCmd.AddCommand(linkCmd)
}
