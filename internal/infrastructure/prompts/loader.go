package prompts

import (
	_ "embed"
)

//go:embed advisor_system.txt
var AdvisorSystemPrompt string

//go:embed advisor_report.txt
var AdvisorReportPrompt string
