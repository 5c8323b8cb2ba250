package users

import "time"

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// FreelancerRef is present only for accounts provisioned by an approval.
type FreelancerRef struct {
	ID             string `json:"id"`
	FreelancerCode string `json:"freelancerId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Status         string `json:"status"`
	CurrentTier    string `json:"currentTier"`
	CurrentGrade   string `json:"currentGrade"`
}

type User struct {
	ID         string         `json:"id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	Role       string         `json:"role"`
	Status     string         `json:"status"`
	IsActive   bool           `json:"isActive"`
	MFAEnabled bool           `json:"mfaEnabled"`
	LastLogin  *time.Time     `json:"lastLogin"`
	CreatedAt  time.Time      `json:"createdAt"`
	Freelancer *FreelancerRef `json:"freelancer"`
}

type ListFilter struct {
	Role     string
	IsActive *bool
	Search   string
}

type Stats struct {
	Total    int            `json:"total"`
	Active   int            `json:"active"`
	Inactive int            `json:"inactive"`
	ByRole   map[string]int `json:"byRole"`
}

type RoleInput struct {
	Role string `json:"role"`
}

type ResetPasswordInput struct {
	NewPassword string `json:"newPassword"`
}

type PasswordReset struct {
	Email             string `json:"email"`
	TemporaryPassword string `json:"temporaryPassword"`
}
