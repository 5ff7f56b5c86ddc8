package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-mlab/internal/errors"
	"github.com/cwbudde/go-mlab/internal/lexer"
	"github.com/cwbudde/go-mlab/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.m>",
	Short: "Parse a script and print the AST rendering",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError("cannot read %s: %v", args[0], err)
		}

		p := parser.New(lexer.New(string(source)))
		program := p.ParseProgram()
		if perr := p.FirstError(); perr != nil {
			srcErr := errors.Wrap(perr, string(source), args[0])
			fmt.Fprintln(os.Stderr, srcErr.Format(true))
			os.Exit(1)
		}
		fmt.Print(program.String())
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
