package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var writeCmd = &cobra.Command{
	Use:   "write <path>",
	Short: "Write content to a file and checkpoint",
	Long: `Write content to the file at <path>, creating it and any missing
parent directories. Content is read from stdin unless --source names a
local file. The whole tree is checkpointed and HEAD moves to the new root.`,
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
		f, err := fs.EnsureFile(ctx, root, args[0])
		if err != nil {
			wrapFatalln("ensure "+args[0], err)
			return
		}

		var src io.ReadCloser = os.Stdin
		if dagfsFlags.write.Source != "" {
			src, err = os.Open(dagfsFlags.write.Source)
			if err != nil {
				wrapFatalln("open source", err)
				return
			}
			defer src.Close()
		}

		w, err := f.OutputStream()
		if err != nil {
			wrapFatalln("open output stream", err)
			return
		}
		if _, err = io.Copy(w, src); err != nil {
			w.Abort()
			wrapFatalln("write content", err)
			return
		}
		if err = w.Close(); err != nil {
			wrapFatalln("close output stream", err)
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
	addSourceFlag(writeCmd)
	rootCmd.AddCommand(writeCmd)
}
