// Package certtool wires the cobra "cert-tool" subcommand (spec.md §6.6): a one-shot utility
// that reads a PEM client certificate off disk and prints its derived LFDI/SFDI, without
// standing up the server or touching the database.
package certtool

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sep2utility/internal/infrastructure/auth"
)

// NewCommand returns the cobra "cert-tool" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert-tool <pem-file>",
		Short: "Print the LFDI/SFDI derived from a client certificate",
		Long:  `Read a PEM-encoded client certificate and print the LFDI/SFDI a CertAuth lookup would derive from it.`,
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	return cmd
}

func newLogger() *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		NoColor: !term.IsTerminal(int(os.Stderr.Fd())),
	}))
}

func run(cmd *cobra.Command, args []string) error {
	log := newLogger()

	path := args[0]
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		log.Error("failed to read certificate file", "path", path, "error", err)
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	lfdi, err := auth.GenerateLFDIFromRawPEM(string(pemBytes))
	if err != nil {
		log.Error("failed to derive lfdi", "error", err)
		return fmt.Errorf("failed to derive lfdi from %s: %w", path, err)
	}

	sfdi, err := auth.DeriveSFDIFromLFDI(lfdi)
	if err != nil {
		log.Error("failed to derive sfdi", "error", err)
		return fmt.Errorf("failed to derive sfdi from lfdi %s: %w", lfdi, err)
	}

	log.Info("derived device identifiers", "file", path, "lfdi", lfdi, "sfdi", sfdi)
	fmt.Printf("LFDI: %s\nSFDI: %d\n", lfdi, sfdi)
	return nil
}
