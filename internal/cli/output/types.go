package output

// LintSummary totals a check run.
type LintSummary struct {
	Files           int `json:"files"`
	FilesWithIssues int `json:"files_with_issues"`
	Errors          int `json:"errors"`
	Warnings        int `json:"warnings"`
	Fixable         int `json:"fixable"`
	Cached          int `json:"cached,omitempty"`
}

// LintOutput is the JSON document written by check.
type LintOutput struct {
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// LintFileResult holds the diagnostics of one file.
type LintFileResult struct {
	Path        string           `json:"path"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
	Error       string           `json:"error,omitempty"`
}

// LintDiagnostic is one reported violation.
type LintDiagnostic struct {
	Source   string `json:"source"`
	RuleID   string `json:"rule"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Fixable  bool   `json:"fixable"`
}

// FixOutput is the JSON document written by fix.
type FixOutput struct {
	Summary FixSummary      `json:"summary"`
	Files   []FixFileResult `json:"files"`
}

// FixSummary totals a fix run.
type FixSummary struct {
	Files     int `json:"files"`
	Fixed     int `json:"fixed"`
	Applied   int `json:"applied"`
	Remaining int `json:"remaining"`
	Added     int `json:"added,omitempty"`
	Removed   int `json:"removed,omitempty"`
}

// FixFileResult describes what fixing one file did.
type FixFileResult struct {
	Path      string `json:"path"`
	Passes    int    `json:"passes"`
	Applied   int    `json:"applied"`
	Remaining int    `json:"remaining"`
	Diff      string `json:"diff,omitempty"`
	Error     string `json:"error,omitempty"`
}
