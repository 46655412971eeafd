package gate

import "fmt"

// ScriptedGate answers prompts from pre-recorded queues. Tests use it to
// drive interactive flows deterministically. An exhausted queue returns the
// prompt's default, so a script only needs the answers it cares about.
type ScriptedGate struct {
	Choices  []string
	Confirms []bool
	Lists    [][]string

	// Prompts records every prompt seen, in order.
	Prompts []string

	// Err, when set, is returned by every call. Simulates a broken console.
	Err error
}

var _ Gate = (*ScriptedGate)(nil)

func (g *ScriptedGate) Choose(prompt string, options []string, def string) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Choices) == 0 {
		return def, nil
	}
	answer := g.Choices[0]
	g.Choices = g.Choices[1:]
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (g *ScriptedGate) Confirm(prompt string, def bool) (bool, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return false, g.Err
	}
	if len(g.Confirms) == 0 {
		return def, nil
	}
	answer := g.Confirms[0]
	g.Confirms = g.Confirms[1:]
	return answer, nil
}

func (g *ScriptedGate) EditList(prompt string) ([]string, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return nil, g.Err
	}
	if len(g.Lists) == 0 {
		return nil, nil
	}
	answer := g.Lists[0]
	g.Lists = g.Lists[1:]
	return answer, nil
}

// String summarizes remaining scripted answers, useful in test failures.
func (g *ScriptedGate) String() string {
	return fmt.Sprintf("scripted gate: %d choices, %d confirms, %d lists remaining",
		len(g.Choices), len(g.Confirms), len(g.Lists))
}
