package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-mlab/internal/errors"
	"github.com/cwbudde/go-mlab/pkg/engine"
)

var runCmd = &cobra.Command{
	Use:   "run <file.m>",
	Short: "Execute a script file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError("cannot read %s: %v", args[0], err)
		}
		verbose, _ := cmd.Flags().GetBool("verbose")

		e := engine.New()
		e.SetOutputCallback(func(text string) {
			fmt.Print(text)
		})

		start := time.Now()
		_, execErr := e.Execute(string(source))
		if execErr != nil {
			srcErr := errors.Wrap(execErr, string(source), args[0])
			fmt.Fprintln(os.Stderr, srcErr.Format(true))
			os.Exit(1)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "executed in %v\n", time.Since(start))
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
