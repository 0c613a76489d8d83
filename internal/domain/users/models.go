package users

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	JobTitle         string    `json:"jobTitle"`
	Level            string    `json:"level"`
	Email            string    `json:"email"`
	DepartmentID     *string   `json:"departmentId"`
	DepartmentName   string    `json:"departmentName,omitempty"`
	TeamID           *string   `json:"teamId"`
	TeamName         string    `json:"teamName,omitempty"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	EmergencyContact string    `json:"emergencyContact"`
	Salary           *float64  `json:"salary"`
	ProfileImage     string    `json:"profileImage"`
	RoleID           string    `json:"roleId"`
	Role             string    `json:"role"`
	Status           string    `json:"status"`
	DateRegistered   time.Time `json:"dateRegistered"`
}

// Filter narrows user listings. RestrictToTeamOf scopes results to the team
// of the given user, which is how staff listings are confined to their own
// team.
type Filter struct {
	Department       string
	Role             string
	RestrictToTeamOf string
}
