package policy

import (
	"github.com/policyops/backend/internal/domain/shared"
)

// ContactRole represents the role a contact plays on a policy
type ContactRole string

const (
	RoleAgent        ContactRole = "Agent"
	RoleNamedInsured ContactRole = "Named Insured"
)

// IsValid checks if the role is a recognized ContactRole
func (r ContactRole) IsValid() bool {
	return r == RoleAgent || r == RoleNamedInsured
}

// String returns the string representation of the ContactRole
func (r ContactRole) String() string {
	return string(r)
}

// Contact represents a party associated with policies, such as the writing
// agent or the named insured.
type Contact struct {
	shared.BaseEntity
	Name string      `json:"name"`
	Role ContactRole `json:"role"`
}

// NewContact creates a new contact
func NewContact(name string, role ContactRole) (*Contact, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONTACT_ROLE", "Contact role is not valid")
	}
	return &Contact{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Role:       role,
	}, nil
}

// IsAgent returns true if the contact is an agent
func (c *Contact) IsAgent() bool {
	return c.Role == RoleAgent
}
