package auth

// Decision is the outcome of evaluating access to a protected view.
// It is computed fresh on every evaluation and carries no state.
type Decision string

const (
	// DecisionAllowed grants access to the requested view.
	DecisionAllowed Decision = "allowed"
	// DecisionDeniedNoSession denies access because no session is present;
	// callers render the login view in place of the requested one.
	DecisionDeniedNoSession Decision = "denied_no_session"
	// DecisionDeniedInsufficientRole denies access because the principal's
	// role does not satisfy the elevated requirement; callers render a fixed
	// access-restricted message.
	DecisionDeniedInsufficientRole Decision = "denied_insufficient_role"
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool { return d == DecisionAllowed }

// Authorize decides whether the session may access a view.
// The no-session check always precedes the role check, so an unauthenticated
// request is never reported as a role problem. requireElevated restricts the
// view to the owner role.
func Authorize(s Session, requireElevated bool) Decision {
	if !s.Authenticated() {
		return DecisionDeniedNoSession
	}
	if requireElevated && !s.IsOwner() {
		return DecisionDeniedInsufficientRole
	}
	return DecisionAllowed
}
