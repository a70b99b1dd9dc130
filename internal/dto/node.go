package dto

import (
	"time"

	"github.com/nodehq/node-admin-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NodeDTO represents a node in API responses
type NodeDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Domain    string    `json:"domain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NodeWithRoleDTO represents a node with the caller's role
type NodeWithRoleDTO struct {
	NodeDTO
	Role models.Role `json:"role"`
}

// NodeMemberDTO represents a member in a node
type NodeMemberDTO struct {
	User     UserDTO     `json:"user"`
	Role     models.Role `json:"role"`
	JoinedAt time.Time   `json:"joined_at"`
}

// NodeDetailDTO represents detailed node information
type NodeDetailDTO struct {
	NodeDTO
	YourRole models.Role `json:"your_role"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToNodeDTO converts a Node model to NodeDTO
func ToNodeDTO(node models.Node) NodeDTO {
	return NodeDTO{
		ID:        node.ID,
		Name:      node.Name,
		Slug:      node.Slug,
		Domain:    node.Domain,
		CreatedAt: node.CreatedAt,
	}
}

// ToNodeWithRoleDTO converts a membership to a node DTO with the role
func ToNodeWithRoleDTO(member models.NodeMember) NodeWithRoleDTO {
	return NodeWithRoleDTO{
		NodeDTO: ToNodeDTO(member.Node),
		Role:    member.Role,
	}
}

// ToNodeMemberDTO converts a member to DTO
func ToNodeMemberDTO(member models.NodeMember) NodeMemberDTO {
	return NodeMemberDTO{
		User:     ToUserDTO(member.User),
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
	}
}

// ToNodeMemberDTOs converts a member list
func ToNodeMemberDTOs(members []models.NodeMember) []NodeMemberDTO {
	dtos := make([]NodeMemberDTO, len(members))
	for i, member := range members {
		dtos[i] = ToNodeMemberDTO(member)
	}
	return dtos
}
