package handlers

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/orchestration"
	"github.com/imamik/iacup/internal/stack"
)

var (
	planColorBlue  = lipgloss.Color("#3b82f6")
	planColorDim   = lipgloss.Color("#6b7280")
	planColorWhite = lipgloss.Color("#f9fafb")

	planTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(planColorWhite)

	planSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(planColorBlue)

	planDimStyle = lipgloss.NewStyle().
			Foreground(planColorDim)
)

// Plan prints the phases Build runs for the environment and the resources
// each phase touches.
func Plan(_ context.Context, opts Options) error {
	rt, err := resolveRuntime(opts.setupOptions())
	if err != nil {
		return err
	}
	_, err = io.WriteString(opts.out(), renderPlan(opts.Environment, orchestration.PlanFor(opts.Environment), rt))
	return err
}

func renderPlan(env config.Environment, phases []string, rt *orchestration.Runtime) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(planTitleStyle.Render(fmt.Sprintf("  iacup plan: %s", env)))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	if len(phases) == 0 {
		b.WriteString("\n")
		b.WriteString(planDimStyle.Render("  Nothing to provision."))
		b.WriteString("\n")
		return b.String()
	}

	for i, phase := range phases {
		b.WriteString("\n")
		b.WriteString(planSectionStyle.Render(fmt.Sprintf("  %d. %s", i+1, phase)))
		b.WriteString("\n")
		for _, line := range phaseDetails(phase, rt) {
			b.WriteString("     " + line + "\n")
		}
	}

	if !slices.Contains(phases, orchestration.PhaseFunctions) {
		b.WriteString("\n")
		b.WriteString(planDimStyle.Render("  Functions run outside the emulator in this environment."))
		b.WriteString("\n")
	}
	return b.String()
}

func phaseDetails(phase string, rt *orchestration.Runtime) []string {
	switch phase {
	case orchestration.PhaseSecrets:
		return []string{planDimStyle.Render("from " + rt.Credentials.SecretsFile)}
	case orchestration.PhaseFunctions:
		return functionDetails(rt.Stack)
	case orchestration.PhaseGateway:
		return []string{
			fmt.Sprintf("prefix %s", rt.Stack.Gateway.Prefix),
			planDimStyle.Render("from " + rt.Layout.GatewayDefinition(rt.Stack.Gateway.Definition)),
		}
	default:
		return nil
	}
}

func functionDetails(s stack.Stack) []string {
	lines := make([]string, 0, len(s.Functions))
	for _, fn := range s.Functions {
		lines = append(lines, fmt.Sprintf("%s (%s)", fn.Name, fn.Build.Toolchain))
	}
	return lines
}
