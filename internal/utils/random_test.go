package utils

import (
	"testing"

	"github.com/sgms-2025/staff-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomPassword(t *testing.T) {
	password := GenerateRandomPassword(12)
	assert.Len(t, password, 12)

	another := GenerateRandomPassword(12)
	// 理论上可能相等，但概率可以忽略
	assert.NotEqual(t, password, another)
}

func TestGenerateRandomStaff(t *testing.T) {
	staff, err := GenerateRandomStaff("test-password", "example.com", 3)
	require.NoError(t, err)

	assert.NotEmpty(t, staff.Username)
	assert.NotEmpty(t, staff.FullName)
	assert.Equal(t, staff.Username+"@example.com", staff.Email)
	assert.Equal(t, int64(3), staff.BranchID)
	assert.Contains(t, []domain.Role{domain.RoleCoach, domain.RoleReceptionist}, staff.Role)
	assert.NotEqual(t, "test-password", staff.PasswordHash)
}

func TestGenerateRandomWeekdays(t *testing.T) {
	for i := 0; i < 20; i++ {
		days := GenerateRandomWeekdays()
		require.NotEmpty(t, days)
		require.LessOrEqual(t, len(days), 7)

		seen := make(map[domain.Weekday]bool)
		for _, day := range days {
			assert.True(t, domain.IsValidWeekday(day))
			assert.False(t, seen[day])
			seen[day] = true
		}
	}
}
