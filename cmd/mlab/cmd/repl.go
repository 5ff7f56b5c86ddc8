package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cwbudde/go-mlab/internal/errors"
	"github.com/cwbudde/go-mlab/pkg/engine"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive prompt",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runREPL(); err != nil {
			exitWithError("%v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">> ",
		HistoryFile:     "/tmp/mlab_history",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	color.New(color.FgCyan, color.Bold).Printf("go-mlab %s", Version)
	fmt.Println("  (type 'exit' to quit)")

	e := engine.New()
	e.SetOutputCallback(func(text string) {
		fmt.Print(text)
	})

	var pending strings.Builder
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			pending.Reset()
			rl.SetPrompt(">> ")
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		if pending.Len() == 0 && (trimmed == "exit" || trimmed == "quit") {
			return nil
		}

		pending.WriteString(line)
		pending.WriteString("\n")
		source := pending.String()

		// Keep reading while brackets are open or the line continues.
		if needsContinuation(source) {
			rl.SetPrompt(".. ")
			continue
		}
		pending.Reset()
		rl.SetPrompt(">> ")

		if strings.TrimSpace(source) == "" {
			continue
		}
		if _, execErr := e.Execute(source); execErr != nil {
			srcErr := errors.Wrap(execErr, source, "")
			fmt.Println(srcErr.Format(true))
		}
	}
}

// needsContinuation reports whether the buffered input is syntactically
// open: unbalanced brackets or a trailing ellipsis.
func needsContinuation(source string) bool {
	depth := 0
	inString := byte(0)
	for i := 0; i < len(source); i++ {
		c := source[i]
		if inString != 0 {
			if c == inString {
				inString = 0
			}
			continue
		}
		switch c {
		case '"':
			inString = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '%':
			for i < len(source) && source[i] != '\n' {
				i++
			}
		}
	}
	if depth > 0 {
		return true
	}
	lines := strings.Split(strings.TrimRight(source, "\n"), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	return strings.HasSuffix(last, "...")
}
