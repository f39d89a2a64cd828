package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/sqlprobe/internal/cli/output"
	"github.com/leapstack-labs/sqlprobe/pkg/analysis"
	"github.com/leapstack-labs/sqlprobe/pkg/determinism"
)

const (
	replPrompt     = "sqlprobe> "
	replContPrompt = "     ...> "
)

// replSection selects what the REPL prints for each statement.
type replSection string

const (
	sectionAll         replSection = "all"
	sectionLineage     replSection = "lineage"
	sectionLint        replSection = "lint"
	sectionDeterminism replSection = "determinism"
	sectionPlan        replSection = "plan"
)

var replSections = []replSection{sectionAll, sectionLineage, sectionLint, sectionDeterminism, sectionPlan}

// replSession holds the state of one interactive session.
type replSession struct {
	analyzer *analysis.Analyzer
	renderer *output.Renderer
	errOut   io.Writer
	section  replSection
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var history string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Analyze SQL interactively",
		Long: `Start an interactive shell that analyzes each statement you enter.

Statements end with a semicolon and may span several lines. Dot-commands
change what is shown:

  .mode all|lineage|lint|determinism|plan
  .help
  .quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, history)
		},
	}
	cmd.Flags().StringVar(&history, "history", defaultHistoryFile(), "History file (empty to disable)")
	return cmd
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "sqlprobe", "repl_history")
}

func runREPL(cmd *cobra.Command, historyFile string) error {
	cmdCtx, err := NewCommandContext(cmd, "")
	if err != nil {
		return err
	}
	if historyFile != "" {
		_ = os.MkdirAll(filepath.Dir(historyFile), 0750)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
		FuncIsTerminal:  func() bool { return isTerminal(cmd.InOrStdin()) },
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	s := &replSession{
		analyzer: cmdCtx.Engine.Analyzer(),
		renderer: cmdCtx.Renderer,
		errOut:   cmd.ErrOrStderr(),
		section:  sectionAll,
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sqlprobe interactive analysis")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	var buf strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if buf.Len() == 0 && strings.HasPrefix(line, ".") {
			if s.handleDotCommand(line) {
				break
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon
		buf.WriteString(line)
		if !strings.HasSuffix(line, ";") {
			buf.WriteString(" ")
			rl.SetPrompt(replContPrompt)
			continue
		}
		rl.SetPrompt(replPrompt)

		sql := strings.TrimSuffix(buf.String(), ";")
		buf.Reset()
		s.analyze(sql)
	}
	return nil
}

// handleDotCommand runs a dot-command and reports whether the session should end.
func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		s.printHelp()
	case ".mode":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.renderer.Writer(), "mode: %s\n", s.section)
			return false
		}
		mode := replSection(strings.ToLower(parts[1]))
		for _, m := range replSections {
			if m == mode {
				s.section = mode
				return false
			}
		}
		_, _ = fmt.Fprintf(s.errOut, "Unknown mode %q\n", parts[1])
	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command %s (try .help)\n", parts[0])
	}
	return false
}

func (s *replSession) analyze(sql string) {
	report := s.analyzer.Analyze(sql)
	r := s.renderer

	if report.Failed() {
		_, _ = fmt.Fprintf(s.errOut, "Parse error: %s\n", report.ParseError)
		return
	}
	if r.EffectiveMode().Structured() {
		_ = r.Data(report)
		return
	}

	switch s.section {
	case sectionLineage:
		renderLineage(r, report.Lineage, report.Sources, report.CTEs)
	case sectionLint:
		renderDiagnostics(r, report.Diagnostics)
	case sectionDeterminism:
		renderIssues(r, report.Issues, true)
	case sectionPlan:
		renderPlan(r, determinism.Plan(report.Issues, determinism.DefaultPlanOptions()))
	default:
		renderLineage(r, report.Lineage, report.Sources, report.CTEs)
		renderDiagnostics(r, report.Diagnostics)
		renderIssues(r, report.Issues, false)
	}
}

func (s *replSession) printHelp() {
	w := s.renderer.Writer()
	_, _ = fmt.Fprintln(w, "Enter a SQL statement ending with ';' to analyze it.")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "  .mode [all|lineage|lint|determinism|plan]  Show or set what is printed")
	_, _ = fmt.Fprintln(w, "  .help                                     Show this help")
	_, _ = fmt.Fprintln(w, "  .quit, .exit                              Leave the REPL")
}

// isTerminal reports whether r is an interactive terminal. Piped input is
// read line by line without raw mode.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newDotCompleter() *readline.PrefixCompleter {
	modes := make([]readline.PrefixCompleterInterface, 0, len(replSections))
	for _, m := range replSections {
		modes = append(modes, readline.PcItem(string(m)))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem(".mode", modes...),
		readline.PcItem(".help"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
