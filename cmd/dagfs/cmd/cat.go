package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var catCmd = &cobra.Command{
	Use:   "cat <path>",
	Short: "Stream the content of a file to stdout",
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
		f, err := fs.ResolveFile(ctx, root, args[0])
		if err != nil {
			wrapFatalln("resolve "+args[0], err)
			return
		}
		rdr, err := f.InputStream(ctx)
		if err != nil {
			wrapFatalln("open input stream", err)
			return
		}
		defer rdr.Close()
		if _, err = io.Copy(os.Stdout, rdr); err != nil {
			wrapFatalln("read content", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(catCmd)
}
