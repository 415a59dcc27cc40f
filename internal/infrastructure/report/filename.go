package report

import (
	"net/url"
	"path/filepath"
	"strings"

	"a11y-bot/internal/domain/entity"
)

// FileName is a11y-report-<host with dots as dashes>.<format>. Targets
// without a host (local files) use the file's base name.
func FileName(target string, format entity.ReportFormat) string {
	name := ""
	if u, err := url.Parse(target); err == nil && u.Hostname() != "" {
		name = strings.ReplaceAll(u.Hostname(), ".", "-")
	} else {
		base := filepath.Base(target)
		name = strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), ".", "-")
	}
	if name == "" || name == "-" {
		name = "page"
	}
	return "a11y-report-" + name + "." + format.String()
}

var contentTypes = map[entity.ReportFormat]string{
	entity.ReportFormatHTML:     "text/html; charset=utf-8",
	entity.ReportFormatPDF:      "application/pdf",
	entity.ReportFormatMarkdown: "text/markdown; charset=utf-8",
	entity.ReportFormatJSON:     "application/json",
	entity.ReportFormatYAML:     "application/yaml",
}

func ContentType(format entity.ReportFormat) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}
