package domain

import (
	"time"
)

type Role string

const (
	RoleManager      Role = "门店经理"
	RoleCoach        Role = "教练"
	RoleReceptionist Role = "前台"
)

type Staff struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	BranchID     int64     `json:"branchID"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
