package importer

// Diagnostic is one row-scoped error or warning. Row keeps the source row
// number so callers can reconstruct source order regardless of the order in
// which concurrent rows completed.
type Diagnostic struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Status classifies the outcome of one row.
type Status int

const (
	// StatusImported means a new entity was created for the row.
	StatusImported Status = iota
	// StatusUpdated means an existing entity was updated from the row.
	StatusUpdated
	// StatusSkipped means the row carried no processable data.
	StatusSkipped
	// StatusFailed means the row was blocked by a row-level error.
	StatusFailed
)

// Report is the aggregate outcome of one batch run. It is built while the
// batch executes, returned once, and not retained by the engine.
type Report struct {
	Total    int  `json:"total"`
	Imported int  `json:"imported"`
	Updated  int  `json:"updated"`
	Skipped  int  `json:"skipped"`
	Failed   int  `json:"failed"`
	Success  bool `json:"success"`

	// Errors holds diagnostics for blocked rows; Warnings for rows that
	// succeeded with a caveat (e.g. an overlap accepted in create mode).
	Errors   []Diagnostic `json:"errors"`
	Warnings []Diagnostic `json:"warnings"`
}

// rowResult is the recoverable outcome of one row, merged into the report
// after its chunk completes so counters stay deterministic.
type rowResult struct {
	row      int
	status   Status
	errors   []Diagnostic
	warnings []Diagnostic
}

func newReport(total int) *Report {
	return &Report{
		Total:    total,
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

func (r *Report) merge(res rowResult) {
	switch res.status {
	case StatusImported:
		r.Imported++
	case StatusUpdated:
		r.Updated++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Errors = append(r.Errors, res.errors...)
	r.Warnings = append(r.Warnings, res.warnings...)
}

// finalize computes the success flag: a batch succeeds iff at least one row
// did. An all-failure batch is unsuccessful even though the call returned.
func (r *Report) finalize() {
	r.Success = r.Failed < r.Total
}

// failedReport builds the report returned on an infrastructure failure: zero
// successes and a single diagnostic describing the abort. Per-row outcomes
// recorded before the rollback are discarded with the transaction.
func failedReport(total int, err error) *Report {
	return &Report{
		Total:    total,
		Failed:   total,
		Success:  false,
		Errors:   []Diagnostic{{Message: "import aborted: " + err.Error()}},
		Warnings: []Diagnostic{},
	}
}
