package actor

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/educhain/backend/core"
)

// Role is the closed set of capability tiers. There is no hierarchy between
// roles; each one is an independent capability set.
type Role string

const (
	RoleSuperAdmin       Role = "super_admin"
	RoleInstitutionAdmin Role = "institution_admin"
	RoleTeacher          Role = "teacher"
	RoleStudent          Role = "student"
)

// AllRoles lists every valid Role, in capability-tier order.
var AllRoles = []Role{RoleSuperAdmin, RoleInstitutionAdmin, RoleTeacher, RoleStudent}

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleInstitutionAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// ParseRole converts a raw string into a Role; unknown values fail.
func ParseRole(s string) (Role, error) {
	role := Role(core.CleanString(s, true /* lower */))
	if !role.IsValid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

// Actor is the authenticated identity driving a session.
type Actor struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	InstitutionID string    `json:"institution_id,omitempty"` // empty for super_admin
	IsActive      bool      `json:"is_active"`
	PasswordHash  []byte    `json:"-"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
	LastLogin     time.Time `json:"last_login"` // UTC
}

func (a *Actor) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Actor) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

// NewActor contains information needed to register a new Actor.
type NewActor struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Role            Role   `json:"role" validate:"required,role"`
	InstitutionID   string `json:"institution_id"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (na *NewActor) Validate(validate *validator.Validate, svc *Service) error {
	na.Name = core.CleanString(na.Name)
	na.Email = core.CleanString(na.Email, true /* lower */)

	if err := validate.Struct(na); err != nil {
		return err
	}
	return svc.checkUniqueness(na.Email)
}

// ResetActorPassword carries a password-reset confirmation.
type ResetActorPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetActorPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(rp)
}
