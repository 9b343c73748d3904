// Command sep2d is the utility-side IEEE 2030.5 / CSIP-AUS server: its "server" subcommand
// serves the 2030.5 resource tree and the JSON admin API side by side, "migrate" manages the
// backing schema, and "cert-tool" is a standalone client-certificate inspector.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"sep2utility/internal/interfaces/cli/certtool"
	"sep2utility/internal/interfaces/cli/migrate"
	"sep2utility/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "sep2d",
		Short:   "IEEE 2030.5 / CSIP-AUS utility-side server",
		Long:    `sep2d serves the IEEE 2030.5 resource tree and its JSON admin API, with built-in migration and certificate-inspection tooling.`,
		Version: "dev",
	}

	rootCmd.Flags().BoolP("version", "v", false, "version for sep2d")

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		certtool.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
