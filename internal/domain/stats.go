package domain

// UserStats holds aggregate user counts for the admin listing.
type UserStats struct {
	// Total is the number of users in the system.
	Total int64 `json:"total"`

	// ByRole maps each role to its user count. Roles with zero users
	// are present with a count of 0 so the shape is stable.
	ByRole map[Role]int64 `json:"by_role"`

	// Active is the number of users with IsActive set.
	Active int64 `json:"active"`

	// Inactive is the number of deactivated users.
	Inactive int64 `json:"inactive"`
}

// NewUserStats returns a UserStats with every role initialised to zero.
func NewUserStats() *UserStats {
	byRole := make(map[Role]int64, len(AllRoles))
	for _, r := range AllRoles {
		byRole[r] = 0
	}
	return &UserStats{ByRole: byRole}
}
