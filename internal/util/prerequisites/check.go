// Package prerequisites provides utilities for checking required client tools.
// The environment lifecycle needs the compose CLI, and function builds need
// the build tool of the function's toolchain.
package prerequisites

import (
	"fmt"
	"os/exec"
	"strings"
)

// Tool represents a client tool that may be required.
type Tool struct {
	// Name is the binary name to look for in PATH.
	Name string

	// Required indicates if this tool is mandatory.
	Required bool

	// Description explains what the tool is used for.
	Description string

	// InstallURL provides a URL for installation instructions.
	InstallURL string
}

// LifecycleTools returns the tools needed to bring the emulation environment up.
func LifecycleTools() []Tool {
	return []Tool{
		{
			Name:        "docker-compose",
			Required:    true,
			Description: "Required for starting and stopping the emulation containers",
			InstallURL:  "https://docs.docker.com/compose/install/",
		},
	}
}

// BuildTools returns the tools needed to build functions with the given toolchain.
// Unknown toolchains need no tools.
func BuildTools(toolchain string) []Tool {
	switch toolchain {
	case "dotnet":
		return []Tool{{
			Name:        "dotnet",
			Required:    true,
			Description: "Required for publishing .NET functions",
			InstallURL:  "https://dotnet.microsoft.com/download",
		}}
	case "go":
		return []Tool{{
			Name:        "go",
			Required:    true,
			Description: "Required for compiling Go functions",
			InstallURL:  "https://go.dev/doc/install",
		}}
	default:
		return nil
	}
}

// OptionalTools returns tools that are useful but not required.
func OptionalTools() []Tool {
	return []Tool{
		{
			Name:        "docker",
			Required:    false,
			Description: "Useful for inspecting emulation containers",
			InstallURL:  "https://docs.docker.com/get-docker/",
		},
	}
}

// CheckResult contains the result of checking a single tool.
type CheckResult struct {
	Tool    Tool
	Found   bool
	Path    string
	Version string
}

// CheckResults contains the results of checking multiple tools.
type CheckResults struct {
	Results []CheckResult
	Missing []Tool
}

// HasErrors returns true if any required tools are missing.
func (r *CheckResults) HasErrors() bool {
	for _, tool := range r.Missing {
		if tool.Required {
			return true
		}
	}
	return false
}

// Error returns an error if any required tools are missing.
func (r *CheckResults) Error() error {
	var missing []string
	for _, tool := range r.Missing {
		if tool.Required {
			missing = append(missing, fmt.Sprintf("%s (%s)", tool.Name, tool.InstallURL))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("missing required tools: %s", strings.Join(missing, ", "))
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Check verifies that the specified tools are available.
func Check(tools []Tool) *CheckResults {
	results := &CheckResults{}

	for _, tool := range tools {
		result := CheckResult{Tool: tool}

		path, err := lookPath(tool.Name)
		if err == nil {
			result.Found = true
			result.Path = path
		} else {
			results.Missing = append(results.Missing, tool)
		}

		results.Results = append(results.Results, result)
	}

	return results
}

// CheckForUp checks the tools needed by the full environment lifecycle with
// functions built by the given toolchains. Optional tools are checked too but
// never fail the result.
func CheckForUp(toolchains ...string) *CheckResults {
	all := LifecycleTools()
	for _, toolchain := range toolchains {
		all = append(all, BuildTools(toolchain)...)
	}
	all = append(all, OptionalTools()...)
	return Check(all)
}

// OptionalMissing returns the optional tools that were not found.
func (r *CheckResults) OptionalMissing() []Tool {
	var out []Tool
	for _, tool := range r.Missing {
		if !tool.Required {
			out = append(out, tool)
		}
	}
	return out
}

// WithVersions fills in the version of every found tool.
func (r *CheckResults) WithVersions() *CheckResults {
	for i := range r.Results {
		if r.Results[i].Found {
			r.Results[i].Version = toolVersion(r.Results[i].Tool.Name)
		}
	}
	return r
}

// toolVersion is swapped in tests.
var toolVersion = getToolVersion

// getToolVersion attempts to get the version of a tool.
// Returns empty string if version cannot be determined.
func getToolVersion(name string) string {
	versionFlags := []string{"--version", "version", "-v"}

	for _, flag := range versionFlags {
		// #nosec G204 - name comes from trusted Tool definitions, not user input
		cmd := exec.Command(name, flag)
		output, err := cmd.Output()
		if err == nil {
			lines := strings.Split(string(output), "\n")
			if len(lines) > 0 {
				return strings.TrimSpace(lines[0])
			}
		}
	}

	return ""
}
