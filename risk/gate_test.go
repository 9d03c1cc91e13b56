package risk_test

import (
	"testing"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/risk"
	"github.com/stretchr/testify/assert"
)

func TestRequirementFor(t *testing.T) {
	type testCase struct {
		score    int
		expected model.ApprovalLevel
	}

	tests := []testCase{
		{0, model.AutoExecute},
		{9, model.AutoExecute},
		{10, model.AuditLog},
		{39, model.AuditLog},
		{40, model.ManagerApproval},
		{69, model.ManagerApproval},
		{70, model.ExecutiveApproval},
		{100, model.ExecutiveApproval},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, risk.RequirementFor(tc.score), "score %d", tc.score)
	}
}

func TestCanAutoExecute(t *testing.T) {
	assert.True(t, risk.CanAutoExecute(0))
	assert.True(t, risk.CanAutoExecute(29))
	assert.False(t, risk.CanAutoExecute(30))
	assert.False(t, risk.CanAutoExecute(75))
}
