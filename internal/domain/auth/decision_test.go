package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize_NoSession(t *testing.T) {
	var sess Session

	assert.Equal(t, DecisionDeniedNoSession, Authorize(sess, false))
	// The no-session check runs before the role check: an anonymous visitor
	// hitting a manager view is told to sign in, not that their role is weak.
	assert.Equal(t, DecisionDeniedNoSession, Authorize(sess, true))
}

func TestAuthorize_RoleCheck(t *testing.T) {
	employee := Session{Principal: &Principal{ID: "3", Role: RoleEmployee}}
	manager := Session{Principal: &Principal{ID: "2", Role: RoleManager}}
	owner := Session{Principal: &Principal{ID: "1", Role: RoleOwner}}

	assert.Equal(t, DecisionAllowed, Authorize(employee, false))
	assert.Equal(t, DecisionAllowed, Authorize(manager, false))
	assert.Equal(t, DecisionDeniedInsufficientRole, Authorize(employee, true))
	assert.Equal(t, DecisionDeniedInsufficientRole, Authorize(manager, true))
	assert.Equal(t, DecisionAllowed, Authorize(owner, true))
}

func TestDecision_Allowed(t *testing.T) {
	assert.True(t, DecisionAllowed.Allowed())
	assert.False(t, DecisionDeniedNoSession.Allowed())
	assert.False(t, DecisionDeniedInsufficientRole.Allowed())
}
