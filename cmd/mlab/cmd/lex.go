package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-mlab/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex <file.m>",
	Short: "Dump the token stream of a script",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		source, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError("cannot read %s: %v", args[0], err)
		}

		l := lexer.New(string(source))
		for {
			tok := l.NextToken()
			fmt.Printf("%d:%d\t%-12v %q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
			if tok.Type == lexer.EOF {
				break
			}
		}
		for _, lexErr := range l.Errors() {
			fmt.Fprintln(os.Stderr, lexErr.Error())
		}
	},
}

func init() {
	rootCmd.AddCommand(lexCmd)
}
