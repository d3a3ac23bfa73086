package cmd

import (
	"github.com/spf13/cobra"
)

var rootShowCmd = &cobra.Command{
	Use:   "root",
	Short: "Print the CID of the current root directory",
	Run: func(cmd *cobra.Command, args []string) {
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
		infoLogger.Println(head.String())
	},
}

func init() {
	rootCmd.AddCommand(rootShowCmd)
}
