package module

import "github.com/san-kum/partprop/internal/candidate"

// DeactivatedFlag is the default property key a rejecting condition sets.
const DeactivatedFlag = "Deactivated"

// AbstractCondition holds the rejection behaviour shared by break
// conditions. Embed it and call Reject from Process when the condition
// triggers.
type AbstractCondition struct {
	rejectAction         Module
	makeRejectedInactive bool
	rejectFlagKey        string
	rejectFlagValue      string
}

func newAbstractCondition() AbstractCondition {
	return AbstractCondition{
		makeRejectedInactive: true,
		rejectFlagKey:        DeactivatedFlag,
	}
}

// SetMakeRejectedInactive controls whether a rejection also ends
// propagation. When false the candidate is only annotated.
func (a *AbstractCondition) SetMakeRejectedInactive(v bool) { a.makeRejectedInactive = v }

func (a *AbstractCondition) MakeRejectedInactive() bool { return a.makeRejectedInactive }

// OnReject sets a module that processes the candidate when it is rejected,
// before its status changes.
func (a *AbstractCondition) OnReject(action Module) { a.rejectAction = action }

// SetRejectFlag overrides the property written on rejection. An empty value
// means the condition's description.
func (a *AbstractCondition) SetRejectFlag(key, value string) {
	a.rejectFlagKey = key
	a.rejectFlagValue = value
}

func (a *AbstractCondition) RejectFlag() (key, value string) {
	return a.rejectFlagKey, a.rejectFlagValue
}

// Reject annotates an active candidate, runs the reject action and, unless
// disabled, moves it to status. Terminal candidates are left untouched.
func (a *AbstractCondition) Reject(c *candidate.Candidate, status candidate.Status, description string) {
	if !c.IsActive() {
		return
	}
	if a.rejectAction != nil {
		a.rejectAction.Process(c)
	}
	if a.rejectFlagKey != "" {
		value := a.rejectFlagValue
		if value == "" {
			value = description
		}
		c.SetProperty(a.rejectFlagKey, value)
	}
	if a.makeRejectedInactive {
		c.SetStatus(status)
	}
}
