package domain

// ApplyResult classifies an apply run for user-visible signalling.
type ApplyResult string

const (
	ApplyNothing ApplyResult = "nothing"
	ApplyApplied ApplyResult = "applied"
	ApplyPartial ApplyResult = "partial"
	ApplyFailed  ApplyResult = "failed"
)

// Why a single moved entry could not be applied.
type ApplyFailure struct {
	VvnID  string
	Step   string
	Reason string
}

// Aggregated outcome of applying a plan's moved entries.
type ApplyOutcome struct {
	SuccessCount int
	FailCount    int
	Failures     []ApplyFailure
}

func (o ApplyOutcome) Result() ApplyResult {
	switch {
	case o.SuccessCount == 0 && o.FailCount == 0:
		return ApplyNothing
	case o.FailCount == 0:
		return ApplyApplied
	case o.SuccessCount == 0:
		return ApplyFailed
	default:
		return ApplyPartial
	}
}

// Fail counts a failed entry and records why.
func (o *ApplyOutcome) Fail(vvnID, step string, err error) {
	o.FailCount++
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	o.Failures = append(o.Failures, ApplyFailure{VvnID: vvnID, Step: step, Reason: reason})
}
