package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleOwner.Valid())
	assert.True(t, RoleManager.Valid())
	assert.True(t, RoleEmployee.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("admin").Valid())
}

func TestRole_Capabilities(t *testing.T) {
	tests := []struct {
		name      string
		role      Role
		addUsers  bool
		delOrders bool
		manage    bool
		reports   bool
		inventory bool
	}{
		{name: "owner", role: RoleOwner, addUsers: true, delOrders: true, manage: true, reports: true, inventory: true},
		{name: "manager", role: RoleManager, addUsers: false, delOrders: false, manage: true, reports: true, inventory: true},
		{name: "employee", role: RoleEmployee, addUsers: false, delOrders: false, manage: false, reports: false, inventory: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.addUsers, tt.role.CanAddUsers())
			assert.Equal(t, tt.delOrders, tt.role.CanDeleteOrders())
			assert.Equal(t, tt.manage, tt.role.CanManageOrders())
			assert.Equal(t, tt.reports, tt.role.CanViewReports())
			assert.Equal(t, tt.inventory, tt.role.CanManageInventory())
		})
	}
}

func TestSession_Accessors(t *testing.T) {
	var empty Session
	assert.False(t, empty.Authenticated())
	assert.Equal(t, Role(""), empty.Role())
	assert.False(t, empty.IsOwner())

	sess := Session{
		Principal:    &Principal{ID: "2", Role: RoleManager},
		LastLogin:    time.Now(),
		LastActivity: time.Now(),
	}
	assert.True(t, sess.Authenticated())
	assert.Equal(t, RoleManager, sess.Role())
	assert.True(t, sess.IsManager())
	assert.False(t, sess.IsOwner())
	assert.False(t, sess.IsEmployee())
}
