package model

// Severity classifies a checker diagnostic record.
type Severity string

// Severity values observed across the supported checkers. The revealer tool
// marks type reveals as "note"; gotype marks them as "information". Anything
// else aborts the run.
const (
	SeverityNote        Severity = "note"
	SeverityInformation Severity = "information"
	SeverityWarning     Severity = "warning"
	SeverityError       Severity = "error"
)

// Informational reports whether a diagnostic of this severity is a
// deliberate type-reveal response rather than a problem in the checked file.
func (s Severity) Informational() bool {
	return s == SeverityNote || s == SeverityInformation
}

// Diagnostic is a checker output record normalized to 1-based lines.
// Used by the CLI layer for display; adapters parse their native formats
// directly into ResultTable entries.
type Diagnostic struct {
	File     string   `json:"file" yaml:"file"`
	Line     int      `json:"line" yaml:"line"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}
