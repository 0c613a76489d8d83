package departments

import "time"

type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ManagerID   *string   `json:"managerId,omitempty"`
	ManagerName string    `json:"managerName,omitempty"`
	TeamCount   int       `json:"teamCount"`
	StaffCount  int       `json:"staffCount"`
	CreatedAt   time.Time `json:"createdAt"`
}
