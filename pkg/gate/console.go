package gate

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF"))
	optionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB020"))
)

// ConsoleGate reads operator decisions from an input stream, usually stdin.
type ConsoleGate struct {
	in     *bufio.Reader
	out    io.Writer
	logger *slog.Logger
}

var _ Gate = (*ConsoleGate)(nil)

// NewConsoleGate builds a gate reading from in and writing prompts to out.
func NewConsoleGate(in io.Reader, out io.Writer, logger *slog.Logger) *ConsoleGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleGate{in: bufio.NewReader(in), out: out, logger: logger}
}

func (g *ConsoleGate) Choose(prompt string, options []string, def string) (string, error) {
	fmt.Fprintln(g.out, promptStyle.Render(prompt))
	for i, opt := range options {
		fmt.Fprintln(g.out, optionStyle.Render(fmt.Sprintf("  %d) %s", i+1, opt)))
	}
	fmt.Fprintf(g.out, "Choice [%s]: ", def)

	line, err := g.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}

	// Canonicalize option text or a 1-based index; pass anything else
	// through for the caller to validate.
	for i, opt := range options {
		if strings.EqualFold(line, opt) || line == fmt.Sprintf("%d", i+1) {
			return opt, nil
		}
	}
	return line, nil
}

func (g *ConsoleGate) Confirm(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	fmt.Fprintf(g.out, "%s [%s]: ", promptStyle.Render(prompt), hint)

	line, err := g.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}

	g.warn("unrecognized answer %q, using default %v", line, def)
	return def, nil
}

func (g *ConsoleGate) EditList(prompt string) ([]string, error) {
	fmt.Fprintln(g.out, promptStyle.Render(prompt))
	fmt.Fprintln(g.out, optionStyle.Render("  (one entry per line, empty line to finish)"))

	var entries []string
	for {
		line, err := g.readLine()
		if err != nil {
			if err == io.EOF && len(entries) > 0 {
				return entries, nil
			}
			return nil, err
		}
		if line == "" {
			return entries, nil
		}
		entries = append(entries, line)
	}
}

func (g *ConsoleGate) readLine() (string, error) {
	line, err := g.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (g *ConsoleGate) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(g.out, warningStyle.Render("! "+msg))
	g.logger.Warn(msg)
}
