package approval

import (
	"github.com/frahmantamala/workforce-management/internal"
	approvalDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/approval"
)

// Decision is the outcome an approver may record on a request.
type Decision string

const (
	DecisionApproved  Decision = "approved"
	DecisionRejected  Decision = "rejected"
	DecisionCancelled Decision = "cancelled"
)

// ParseDecision accepts exactly approved, rejected or cancelled.
func ParseDecision(s string) (Decision, error) {
	switch d := Decision(s); d {
	case DecisionApproved, DecisionRejected, DecisionCancelled:
		return d, nil
	}
	return "", internal.NewInvalidValue("decision", s)
}

func (d Decision) Status() approvalDatamodel.RequestStatus {
	return approvalDatamodel.RequestStatus(d)
}
