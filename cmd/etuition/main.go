// Command etuition runs the eTuition API and its maintenance tasks.
//
//	etuition serve
//	etuition route:list
//	etuition token a@x.com
//	etuition user:promote a@x.com admin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "etuition",
	Short:         "eTuition marketplace API",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(promoteCmd)
}
