package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/etuition/etuition-api/app/repositories/memory"
	"github.com/etuition/etuition-api/internal/kernel"
	"github.com/etuition/etuition-api/pkg/auth"
	"github.com/etuition/etuition-api/pkg/cache"
	"github.com/etuition/etuition-api/pkg/payment"
)

// etuition route:list builds the router against in-memory storage, so it
// needs no database.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		r := kernel.New(kernel.Deps{
			Repos:     memory.New(),
			Cache:     cache.New(nil),
			Processor: payment.NewStripe(""),
			Tokens:    auth.NewTokenService("route-list"),
		})

		if name, _ := cmd.Flags().GetString("name"); name != "" {
			path, ok := r.Path(name)
			if !ok {
				return fmt.Errorf("route %q not found", name)
			}
			fmt.Fprintln(os.Stdout, path)
			return nil
		}

		infos := r.Routes()
		sort.Slice(infos, func(i, j int) bool {
			if infos[i].Path != infos[j].Path {
				return infos[i].Path < infos[j].Path
			}
			return infos[i].Method < infos[j].Method
		})

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

func init() {
	routeListCmd.Flags().String("name", "", "print only the path of the named route")
}
