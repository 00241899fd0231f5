package diagnostic

// JSON report shapes consumed by editor and CI tooling. The field
// names are part of the output contract and must not change.

// Record is one diagnostic in the JSON report.
type Record struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Line    int      `json:"line"`
	Column  int      `json:"column"`
	EndLine int      `json:"end_line,omitempty"`
	EndCol  int      `json:"end_column,omitempty"`
	Notes   []string `json:"notes,omitempty"`
	Hints   []string `json:"hints,omitempty"`
}

// FileReport groups the diagnostics of one source file.
type FileReport struct {
	File     string   `json:"file"`
	Success  bool     `json:"success"`
	Errors   []Record `json:"errors"`
	Warnings []Record `json:"warnings"`
}

// Summary aggregates counts across all files in the report.
type Summary struct {
	TotalFiles      int `json:"total_files"`
	FilesWithErrors int `json:"files_with_errors"`
	TotalErrors     int `json:"total_errors"`
	TotalWarnings   int `json:"total_warnings"`
}

// Report is the top-level JSON document.
type Report struct {
	Version string       `json:"version"`
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}

// NewReport creates an empty report for the given tool version.
func NewReport(version string) *Report {
	return &Report{Version: version, Files: []FileReport{}}
}

// AddFile appends one file's diagnostics and updates the summary.
func (r *Report) AddFile(file string, diags *Diagnostics) {
	fr := FileReport{
		File:     file,
		Success:  !diags.HasErrors(),
		Errors:   []Record{},
		Warnings: []Record{},
	}
	for _, d := range diags.All() {
		rec := Record{
			Code:    string(d.Code),
			Message: d.Message,
			Line:    d.Span.Line,
			Column:  d.Span.Column,
			EndLine: d.Span.EndLine,
			EndCol:  d.Span.EndColumn,
			Notes:   d.Notes,
			Hints:   d.Hints,
		}
		if d.Severity == Error {
			fr.Errors = append(fr.Errors, rec)
		} else {
			fr.Warnings = append(fr.Warnings, rec)
		}
	}
	r.Files = append(r.Files, fr)

	r.Summary.TotalFiles++
	if !fr.Success {
		r.Summary.FilesWithErrors++
	}
	r.Summary.TotalErrors += len(fr.Errors)
	r.Summary.TotalWarnings += len(fr.Warnings)
}
