package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/kashvi-shop/app/repositories/memory"
	"github.com/shashiranjanraj/kashvi-shop/config"
	"github.com/shashiranjanraj/kashvi-shop/internal/kernel"
	"github.com/shashiranjanraj/kashvi-shop/internal/server"
	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
	"github.com/shashiranjanraj/kashvi-shop/pkg/storage"
	"github.com/shashiranjanraj/kashvi-shop/pkg/ws"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run"},
	Short:   "Start the HTTP and gRPC servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.Start(cmd.Context())
	},
}

var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List every route with its required roles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		return printRoutes(cmd.OutOrStdout())
	},
}

// printRoutes builds the kernel on in-memory dependencies; only the route
// table is read.
func printRoutes(out io.Writer) error {
	k, err := kernel.NewHTTPKernel(kernel.Deps{
		Store:  memory.New(),
		Issuer: auth.NewIssuer(config.Auth()),
		Disk:   storage.NewLocalDisk(os.TempDir(), ""),
		Hub:    ws.NewHub(),
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH\tNAME\tACCESS")
	fmt.Fprintln(w, "------\t----\t----\t------")
	for _, ri := range k.Routes() {
		access := "public"
		switch {
		case len(ri.Roles) > 0:
			access = strings.Join(ri.Roles, ", ")
		case ri.Protected:
			access = "authenticated"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name, access)
	}
	return w.Flush()
}
