package entity

// ConformanceResult is produced by the external rule engine (axe-core) and is
// passed through the aggregator untouched.
type ConformanceResult struct {
	Engine     string
	Violations []ConformanceViolation
	Skipped    bool
}

type ConformanceViolation struct {
	ID          string            `json:"id" yaml:"id"`
	Impact      string            `json:"impact,omitempty" yaml:"impact,omitempty"`
	Help        string            `json:"help" yaml:"help"`
	Description string            `json:"description" yaml:"description"`
	HelpURL     string            `json:"helpUrl,omitempty" yaml:"help_url,omitempty"`
	Nodes       []ConformanceNode `json:"nodes" yaml:"nodes"`
}

type ConformanceNode struct {
	Target []string `json:"target" yaml:"target"`
	HTML   string   `json:"html,omitempty" yaml:"html,omitempty"`
}
