package enum

// OutcomeKind tags a decoded response of the remote catalog service
type OutcomeKind string

const (
	OutcomeSuccess  OutcomeKind = "success"
	OutcomeRejected OutcomeKind = "rejected"
	OutcomeNotFound OutcomeKind = "not_found"
)
