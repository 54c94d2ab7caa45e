// Package output renders scan reports and candidate rankings in table,
// JSON, and markdown form.
package output

import (
	"io"

	"github.com/crumbwatch/crumbwatch/internal/engine"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// Format represents the output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Formatter renders the results of a repository scan or a candidate
// ranking.
type Formatter interface {
	Report(analytics *model.Analytics, w io.Writer) error
	Outlook(issueRef string, outlook *engine.IssueOutlook, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}
