package models

// Status is the closed set of submission workflow statuses. Every status
// literal in the codebase must come from this list; the transition table
// below is the single source of truth for what the workflow engine accepts.
type Status string

const (
	StatusSubmitted             Status = "submitted"
	StatusAcceptedByFacilitator Status = "accepted_by_facilitator"
	StatusForwardedToPIO        Status = "forwarded_to_pio"
	StatusAcceptedByPIO         Status = "accepted_by_pio"
	StatusUnderExternalReview   Status = "under_external_review"
	StatusAcceptedByExternal    Status = "accepted_by_external"
	StatusApproved              Status = "approved"
	StatusRejected              Status = "rejected"

	// Legacy aliases still present in older rows. They behave exactly like
	// their canonical counterparts and collapse onto them in the timeline.
	StatusForwardedToExternal Status = "forwarded_to_external"
	StatusReviewedByPIO       Status = "reviewed_by_pio"
)

// allowedTransitions maps a current status to the statuses reachable from it.
// Terminal statuses (approved, rejected) have no entry.
var allowedTransitions = map[Status][]Status{
	StatusSubmitted:             {StatusAcceptedByFacilitator, StatusRejected},
	StatusAcceptedByFacilitator: {StatusForwardedToPIO, StatusRejected},
	StatusForwardedToPIO:        {StatusAcceptedByPIO, StatusRejected},
	StatusAcceptedByPIO:         {StatusUnderExternalReview, StatusForwardedToExternal, StatusRejected},
	StatusUnderExternalReview:   {StatusAcceptedByExternal, StatusRejected},
	StatusForwardedToExternal:   {StatusAcceptedByExternal, StatusRejected},
	StatusReviewedByPIO:         {StatusUnderExternalReview, StatusForwardedToExternal, StatusRejected},
	StatusAcceptedByExternal:    {StatusApproved, StatusRejected},
}

// canonicalStatus collapses database-level aliases onto the canonical names
// used by the timeline.
var canonicalStatus = map[Status]Status{
	StatusReviewedByPIO:       StatusAcceptedByPIO,
	StatusForwardedToExternal: StatusUnderExternalReview,
}

// statusLabels are the human-readable names used in notifications and
// timeline rendering.
var statusLabels = map[Status]string{
	StatusSubmitted:             "Submitted",
	StatusAcceptedByFacilitator: "Accepted by Facilitator",
	StatusForwardedToPIO:        "Forwarded to Publication & Innovation Office",
	StatusAcceptedByPIO:         "Accepted by Publication & Innovation Office",
	StatusUnderExternalReview:   "Under External Review",
	StatusAcceptedByExternal:    "Accepted by External Review Office",
	StatusApproved:              "Approved",
	StatusRejected:              "Rejected",
}

// IsValid reports whether s is a known status value, aliases included.
func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusAcceptedByFacilitator, StatusForwardedToPIO,
		StatusAcceptedByPIO, StatusUnderExternalReview, StatusAcceptedByExternal,
		StatusApproved, StatusRejected, StatusForwardedToExternal, StatusReviewedByPIO:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Canonical returns the canonical status name, collapsing legacy aliases.
func (s Status) Canonical() Status {
	if c, ok := canonicalStatus[s]; ok {
		return c
	}
	return s
}

// Label returns the display name for s. Aliases resolve through their
// canonical status.
func (s Status) Label() string {
	if label, ok := statusLabels[s.Canonical()]; ok {
		return label
	}
	return string(s)
}

// CanTransitionTo reports whether target is reachable from s in one step.
// Alias targets are checked as written, not canonicalized, so both
// under_external_review and forwarded_to_external are accepted out of
// accepted_by_pio.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TimelineSteps is the fixed canonical step sequence rendered by the
// tracking page, in order. Rejection is appended separately when present.
var TimelineSteps = []Status{
	StatusSubmitted,
	StatusAcceptedByFacilitator,
	StatusForwardedToPIO,
	StatusAcceptedByPIO,
	StatusUnderExternalReview,
	StatusApproved,
}
