package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/logger"
	"github.com/zephyrtronium/formula/suggest"
)

var (
	evalIn      string
	evalVerb    string
	evalGiven   []string
	evalEcho    bool
	evalResolve bool
)

// evalCmd evaluates formulas given as text, one per argument or input line.
var evalCmd = &cobra.Command{
	Use:   "eval [formula...]",
	Short: "Evaluate formulas typed as text",
	Long: `Eval types each argument, or each line of input when there are no
arguments, into a fresh formula and prints its value. Operator symbols are
operators and whitespace separates operands, so a number with a signed
exponent such as 1e-5 cannot be typed; write 1e5 or 1 / 1e5 instead. With
--resolve, words are looked up as variables by exact name.`,
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVar(&evalIn, "in", "", "Input file (default stdin if no args given)")
	evalCmd.Flags().StringVar(&evalVerb, "fmt", "%g", "Result formatting string")
	evalCmd.Flags().StringArrayVar(&evalGiven, "given", nil, "id=value variable definition (any number of times)")
	evalCmd.Flags().BoolVar(&evalEcho, "echo", false, "Print parse trees")
	evalCmd.Flags().BoolVar(&evalResolve, "resolve", false, "Resolve words to variables with the suggestion provider")
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.NewWriter(logger.ParseLevel(cfg.LogLevel), cmd.ErrOrStderr())

	ctx := formula.NewContext(formula.Prec(cfg.Precision))
	for _, d := range evalGiven {
		id, val, ok := strings.Cut(d, "=")
		if !ok {
			return fmt.Errorf(`variable definitions must be "id=value", not %q`, d)
		}
		id = strings.TrimSpace(id)
		r := typeFormula(ctx, val).Result()
		if !r.Evaluable() {
			return fmt.Errorf("setting %s: %w", id, r.Err)
		}
		ctx.Set(id, r.Value)
	}

	var p suggest.Provider
	if evalResolve {
		var closer io.Closer
		p, closer, err = openProvider(cfg)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	lines, err := evalInputs(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := evalVerb + "\n"
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		ed := typeFormula(ctx, line)
		if p != nil {
			resolveVariables(cmd.Context(), ed, p, log)
		}
		if evalEcho {
			fmt.Fprintf(out, "%s : ", echo(ed.Formula()))
		}
		r := ed.Result()
		if !r.Evaluable() {
			fmt.Fprintln(out, color.RedString("%v", r.Err))
			continue
		}
		fmt.Fprintf(out, verb, r.Value)
	}
	return nil
}

// typeFormula types text into a new formula evaluated with ctx and commits
// whatever input remains.
func typeFormula(ctx *formula.Context, text string) *formula.Editor {
	ed := formula.NewEditor(formula.NewStore(), ctx)
	pending := ed.Type("", text)
	ed.Key(formula.Event{Key: formula.KeyEnter}, pending)
	return ed
}

// resolveVariables replaces text tokens with variables whose names match them
// exactly, ignoring case. Text with no unique match is left alone.
func resolveVariables(ctx context.Context, ed *formula.Editor, p suggest.Provider, log *slog.Logger) {
	for i, tok := range ed.Formula() {
		if tok.Kind() != formula.Text {
			continue
		}
		var match []suggest.Suggestion
		for _, s := range suggest.Fetch(ctx, p, tok.Text(), log) {
			if strings.EqualFold(s.Name, tok.Text()) {
				match = append(match, s)
			}
		}
		if len(match) != 1 {
			log.Debug("unresolved variable", "text", tok.Text(), "matches", len(match))
			continue
		}
		if err := ed.Store().ReplaceAt(i, formula.VariableToken(match[0].ID, match[0].Name)); err != nil {
			log.Error("replacing token", "index", i, "err", err)
		}
	}
}

// echo renders the parse tree of toks, or the tokens themselves if they do
// not parse.
func echo(toks []formula.Token) string {
	if a, err := formula.Parse(toks); err == nil {
		return a.String()
	}
	s := make([]string, len(toks))
	for i, tok := range toks {
		s[i] = tok.Text()
	}
	return strings.Join(s, " ")
}

// evalInputs collects the formulas to evaluate: the arguments, plus the lines
// of the input file, or of stdin if there are no arguments.
func evalInputs(cmd *cobra.Command, args []string) ([]string, error) {
	lines := append([]string(nil), args...)
	var in io.Reader
	switch {
	case evalIn != "" && evalIn != "-":
		f, err := os.Open(evalIn)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	case evalIn == "-", len(args) == 0:
		in = cmd.InOrStdin()
	}
	if in == nil {
		return lines, nil
	}
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}
