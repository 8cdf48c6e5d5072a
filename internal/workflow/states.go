package workflow

// Audit statuses. This is the canonical vocabulary; older records may
// still carry the pre-migration codes handled by NormalizeStatus.
const (
	StatusDraft           = "draft"
	StatusScheduled       = "scheduled"
	StatusInProgress      = "in_progress"
	StatusReportDraft     = "report_draft"
	StatusClientReview    = "client_review"
	StatusSubmitted       = "submitted"
	StatusTechnicalReview = "technical_review"
	StatusDecisionPending = "decision_pending"
	StatusDecided         = "decided"
	StatusClosed          = "closed"
	StatusCancelled       = "cancelled"
)

// StatusLabels maps status codes to display labels.
var StatusLabels = map[string]string{
	StatusDraft:           "Draft",
	StatusScheduled:       "Scheduled",
	StatusInProgress:      "In Progress",
	StatusReportDraft:     "Report Draft",
	StatusClientReview:    "Client Review",
	StatusSubmitted:       "Submitted",
	StatusTechnicalReview: "Technical Review",
	StatusDecisionPending: "Decision Pending",
	StatusDecided:         "Decided",
	StatusClosed:          "Closed",
	StatusCancelled:       "Cancelled",
}

// AuditTransitions is the authoritative transition table. Forward
// progression runs draft through closed; client_review keeps a backward
// edge to report_draft for the corrections loop; cancelled is reachable
// from every non-terminal state; decision_pending may close directly when
// the decision and closure are recorded in one step.
var AuditTransitions = map[string][]string{
	StatusDraft:           {StatusScheduled, StatusCancelled},
	StatusScheduled:       {StatusInProgress, StatusCancelled},
	StatusInProgress:      {StatusReportDraft, StatusCancelled},
	StatusReportDraft:     {StatusClientReview, StatusCancelled},
	StatusClientReview:    {StatusSubmitted, StatusReportDraft, StatusCancelled},
	StatusSubmitted:       {StatusTechnicalReview, StatusCancelled},
	StatusTechnicalReview: {StatusDecisionPending, StatusCancelled},
	StatusDecisionPending: {StatusDecided, StatusClosed, StatusCancelled},
	StatusDecided:         {StatusClosed},
	StatusClosed:          {},
	StatusCancelled:       {},
}

// legacyStatuses maps pre-migration status codes to the canonical set.
var legacyStatuses = map[string]string{
	"submitted_to_cb":         StatusSubmitted,
	"returned_for_correction": StatusReportDraft,
	"under_technical_review":  StatusTechnicalReview,
}

// NormalizeStatus maps a possibly legacy status code to the canonical
// vocabulary. Unknown codes are returned unchanged; IsKnownStatus decides
// validity.
func NormalizeStatus(code string) string {
	if canonical, ok := legacyStatuses[code]; ok {
		return canonical
	}
	return code
}

// IsKnownStatus reports whether code belongs to the canonical status set.
func IsKnownStatus(code string) bool {
	_, ok := StatusLabels[code]
	return ok
}

// IsTerminalStatus reports whether no transition leaves the status.
func IsTerminalStatus(code string) bool {
	return len(AuditTransitions[code]) == 0 && IsKnownStatus(code)
}
