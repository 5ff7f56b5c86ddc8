package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "mlab",
	Short: "MATLAB-compatible interpreter",
	Long: `go-mlab is a Go implementation of a MATLAB-compatible scripting
language for scientific computing:

  - Matrix algebra with broadcasting, decompositions and solvers
  - Numerical routines (integration, ODEs, optimisation, FFT)
  - Symbolic differentiation, integration and equation solving
  - Declarative 2-D/3-D plot and audio descriptors for embedders

The engine is a library (pkg/engine); this command runs scripts and an
interactive prompt on top of it.`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
