package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/teamshift/internal/models"
)

type Membership struct {
	ID        uint      `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	RoleID    *uint     `json:"role_id"`
	IsOwner   bool      `json:"is_owner"`
}

// Actor is the public projection of a user. It has no password hash field.
type Actor struct {
	ID          uuid.UUID    `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Email       string       `json:"email"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	Memberships []Membership `json:"memberships"`
}

func NewActor(u *models.User) Actor {
	a := Actor{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		Memberships: make([]Membership, 0, len(u.Memberships)),
	}
	for _, m := range u.Memberships {
		a.Memberships = append(a.Memberships, Membership{
			ID:        m.ID,
			CompanyID: m.CompanyID,
			RoleID:    m.RoleID,
			IsOwner:   m.IsOwner,
		})
	}
	return a
}

func (a Actor) IsOwner(companyID uuid.UUID) bool {
	for _, m := range a.Memberships {
		if m.CompanyID == companyID && m.IsOwner {
			return true
		}
	}
	return false
}

func (a Actor) IsMember(companyID uuid.UUID) bool {
	for _, m := range a.Memberships {
		if m.CompanyID == companyID {
			return true
		}
	}
	return false
}
