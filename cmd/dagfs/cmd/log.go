package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dagfs/dagfs/pkg/fs"
)

var logCmd = &cobra.Command{
	Use:   "log [path]",
	Short: "Show the version history of an entity",
	Long: `Walk the previous version chain of the entity at [path], or of the
root directory when no path is given, and print every version it went
through, most recent first.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		repo, err := openRepo()
		if err != nil {
			wrapFatalln("open repository", err)
			return
		}
		defer repo.Close()

		head, err := repo.head()
		if err != nil {
			wrapFatalln("read HEAD", err)
			return
		}
		if len(args) == 1 {
			root, err := repo.loadRoot(ctx)
			if err != nil {
				wrapFatalln("load root", err)
				return
			}
			ent, err := fs.Resolve(ctx, root, args[0])
			if err != nil {
				wrapFatalln("resolve "+args[0], err)
				return
			}
			head = ent.CID()
			if !head.Defined() {
				wrapFatalln(args[0]+" has never been checkpointed", nil)
				return
			}
		}
		chain, err := fs.History(ctx, repo.store, head)
		if err != nil {
			wrapFatalln("walk history", err)
			return
		}
		if dagfsFlags.log.Max > 0 && len(chain) > dagfsFlags.log.Max {
			chain = chain[:dagfsFlags.log.Max]
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		for _, c := range chain {
			ent, err := fs.Load(ctx, repo.store, c)
			if err != nil {
				wrapFatalln("load version "+c.String(), err)
				return
			}
			fmt.Fprintf(w, "%s\t%s\n", c.String(), ent.Metadata().ModifiedAt.Format(time.RFC3339))
		}
		if err = w.Flush(); err != nil {
			wrapFatalln("write history", err)
			return
		}
	},
}

func init() {
	addMaxVersionsFlag(logCmd)
	rootCmd.AddCommand(logCmd)
}
