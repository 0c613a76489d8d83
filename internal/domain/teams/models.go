package teams

import "time"

type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Team struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	LeaderID       *string   `json:"leaderId"`
	LeaderName     string    `json:"leaderName,omitempty"`
	DepartmentID   *string   `json:"departmentId"`
	DepartmentName string    `json:"departmentName,omitempty"`
	Members        []Member  `json:"members"`
	MembersCount   int       `json:"membersCount"`
	CreatedAt      time.Time `json:"createdAt"`
}
