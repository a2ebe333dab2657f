package runner

import "rfemassist/internal/infer"

const (
	FailedFilename      = "Failed to process"
	DefaultSpotMaterial = "C30/37"
)

// Metrics are illustrative quality indicators for one processed input.
type Metrics struct {
	Index           int
	Filename        string
	InputType       string
	Success         bool
	Skipped         bool
	Attempts        int
	CorrectMaterial bool
	LoadPresent     bool
	NodeCount       int
	LoadCount       int
	InferredBy      string
	Error           string
}

// Evaluate derives metrics in result order. spotMaterial is the material
// name whose presence is checked; empty means DefaultSpotMaterial.
func Evaluate(results []Result, spotMaterial string) []Metrics {
	if spotMaterial == "" {
		spotMaterial = DefaultSpotMaterial
	}
	out := make([]Metrics, 0, len(results))
	for _, r := range results {
		m := Metrics{Index: r.Index, Attempts: r.Attempts, Skipped: r.Skipped}
		if !r.OK() {
			m.Filename = FailedFilename
			m.InputType = "N/A"
			if r.Err != nil {
				m.Error = r.Err.Error()
			}
			out = append(out, m)
			continue
		}
		m.Success = true
		m.Filename = r.Filename
		m.InputType = string(r.InputType)
		if r.Rule != infer.RuleNone {
			m.InferredBy = r.Rule.String()
		}
		if t := r.Template; t != nil {
			m.CorrectMaterial = t.HasMaterial(spotMaterial)
			m.LoadPresent = len(t.Loads) > 0
			m.NodeCount = len(t.Nodes)
			m.LoadCount = len(t.Loads)
		}
		out = append(out, m)
	}
	return out
}

// SuccessCount counts metrics that are not failures.
func SuccessCount(ms []Metrics) int {
	n := 0
	for _, m := range ms {
		if m.Success {
			n++
		}
	}
	return n
}

// SampleTexts are the demonstration prompts for a -demo run.
var SampleTexts = []string{
	"Design a concrete beam with a rectangular cross-section 30 x 50 cm made of C30/37, length 10 m, supported at both ends, with a uniform live load of 10 kN/m.",
	"Analyze a concrete column with a circular cross-section 40 cm diameter made of C40/50, height 5 m, fixed at the base and free at the top, with an axial load of 500 kN.",
	"Generate a concrete slab with dimensions 5m x 5m x 0.2m and material C25/30, simply supported on all four edges, subjected to a uniform live load of 5 kN/m2.",
	"Model a concrete wall with dimensions 8m x 3m x 0.3m and material C35/45, fixed at the base and free at the top, with a line load of 2 kN/m at the top.",
	"Generate a concrete wall with dimensions 4.2m height and 11.4m length and thickness 25 cm. There is a door with 2.2 m height and 1.5 m width at 4.1 m from the left. " +
		"Concrete grade is C30/37. Apply a line load on the upper edge with magnitude 13.5 kN/m. The wall is Navier supported at the top and bottom line of the wall.",
}
