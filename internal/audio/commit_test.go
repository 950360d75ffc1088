package audio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitSetsAllRolesInOrder(t *testing.T) {
	policy := &fakePolicy{}

	err := commit(func() (policyConfig, error) { return policy, nil }, "dev-b")
	require.NoError(t, err)

	assert.Equal(t, []Role{RoleGeneral, RoleMultimedia, RoleCommunications}, policy.calls)
	assert.Equal(t, []string{"dev-b", "dev-b", "dev-b"}, policy.ids)
	assert.Equal(t, 1, policy.released)
}

func TestCommitStopsAtFirstFailedRole(t *testing.T) {
	hrErr := errors.New("HRESULT 0x80070490")

	tests := []struct {
		name      string
		failRole  Role
		wantCalls []Role
	}{
		{"general fails", RoleGeneral, []Role{RoleGeneral}},
		{"multimedia fails", RoleMultimedia, []Role{RoleGeneral, RoleMultimedia}},
		{"communications fails", RoleCommunications, []Role{RoleGeneral, RoleMultimedia, RoleCommunications}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := &fakePolicy{failOn: map[Role]error{tt.failRole: hrErr}}

			err := commit(func() (policyConfig, error) { return policy, nil }, "dev-b")

			var commitErr *CommitError
			require.ErrorAs(t, err, &commitErr)
			assert.Equal(t, tt.failRole, commitErr.Role)
			assert.ErrorIs(t, err, hrErr)
			assert.Contains(t, err.Error(), tt.failRole.String())

			assert.Equal(t, tt.wantCalls, policy.calls)
			assert.Equal(t, 1, policy.released, "policy object must be released on failure")
		})
	}
}

func TestCommitMultimediaFailureLeavesGeneralCommitted(t *testing.T) {
	policy := &fakePolicy{failOn: map[Role]error{RoleMultimedia: errors.New("E_FAIL")}}

	err := commit(func() (policyConfig, error) { return policy, nil }, "dev-b")

	var commitErr *CommitError
	require.ErrorAs(t, err, &commitErr)
	assert.Equal(t, RoleMultimedia, commitErr.Role)
	assert.Contains(t, policy.calls, RoleGeneral)
	assert.NotContains(t, policy.calls, RoleCommunications)
}

func TestCommitBindFailure(t *testing.T) {
	classErr := errors.New("REGDB_E_CLASSNOTREG")
	calls := 0

	err := commit(func() (policyConfig, error) {
		calls++
		return nil, classErr
	}, "dev-b")

	var bindErr *BindError
	require.ErrorAs(t, err, &bindErr)
	assert.ErrorIs(t, err, classErr)
	assert.Equal(t, 1, calls, "binding is never retried")
}
