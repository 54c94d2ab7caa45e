package output

import (
	"encoding/json"
	"io"

	"github.com/crumbwatch/crumbwatch/internal/engine"
	"github.com/crumbwatch/crumbwatch/internal/model"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Pretty bool
}

func (f *JSONFormatter) encode(v any, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// Report outputs a scan report as JSON.
func (f *JSONFormatter) Report(analytics *model.Analytics, w io.Writer) error {
	return f.encode(analytics, w)
}

// Outlook outputs a candidate ranking as JSON.
func (f *JSONFormatter) Outlook(issueRef string, outlook *engine.IssueOutlook, w io.Writer) error {
	return f.encode(struct {
		Issue string `json:"issue"`
		*engine.IssueOutlook
	}{Issue: issueRef, IssueOutlook: outlook}, w)
}
