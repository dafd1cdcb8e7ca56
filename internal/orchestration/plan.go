package orchestration

import "github.com/imamik/iacup/internal/config"

// Phase names of Build.
const (
	PhaseSecrets   = "secrets"
	PhaseFunctions = "functions"
	PhaseGateway   = "gateway"
)

// buildPlan lists the phases Build runs per environment, in order.
var buildPlan = map[config.Environment][]string{
	config.EnvironmentLocal:      {PhaseSecrets},
	config.EnvironmentStaging:    {PhaseSecrets, PhaseFunctions, PhaseGateway},
	config.EnvironmentProduction: {PhaseSecrets},
}

// PlanFor returns the phase names Build runs for env. Unknown environments
// have an empty plan.
func PlanFor(env config.Environment) []string {
	return append([]string(nil), buildPlan[env]...)
}
