package domain

import "time"

const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)

// Project groups tasks under an owner and a member set.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Project) IsOwnedBy(userID string) bool {
	return p != nil && p.OwnerID == userID
}

// ProjectMember links a user to a project.
type ProjectMember struct {
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
