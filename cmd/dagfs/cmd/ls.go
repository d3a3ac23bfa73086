package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List the entries of a directory",
	Long: `List the entries of the directory at [path], or of the root
directory when no path is given. Entry references reflect the last
checkpoint; entries created since show an empty reference.`,
	Args: cobra.MaximumNArgs(1),
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
		dir := root
		if len(args) == 1 {
			dir, err = fs.ResolveDir(ctx, root, args[0])
			if err != nil {
				wrapFatalln("resolve "+args[0], err)
				return
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		for _, e := range dir.Entries() {
			ref := ""
			if e.Ref.Defined() {
				ref = e.Ref.String()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Kind, ref, e.Name)
		}
		if err = w.Flush(); err != nil {
			wrapFatalln("write listing", err)
			return
		}
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
