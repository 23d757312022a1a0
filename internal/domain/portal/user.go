// Package portal models the self-service customer accounts of the website:
// the login user, its customer record and the billing address.
package portal

import (
	"regexp"
	"strings"

	"github.com/erp/ticketing/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RoleCustomer is granted to every self-registered user
const RoleCustomer = "Customer"

// UserTypeWebsite marks users that only access the portal
const UserTypeWebsite = "Website User"

var (
	bcryptCost = bcrypt.DefaultCost
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User is a website login
type User struct {
	shared.TenantAggregateRoot
	Email        string
	FirstName    string
	LastName     string
	MobileNo     string
	PasswordHash string
	UserType     string
	Enabled      bool
	Roles        []string
}

// NewWebsiteUser creates an enabled website user. The first name defaults to the local part of the email.
func NewWebsiteUser(tenantID uuid.UUID, email, password, firstName, lastName, mobileNo string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		firstName = strings.SplitN(email, "@", 2)[0]
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		FirstName:           firstName,
		LastName:            strings.TrimSpace(lastName),
		MobileNo:            strings.TrimSpace(mobileNo),
		PasswordHash:        string(hash),
		UserType:            UserTypeWebsite,
		Enabled:             true,
		Roles:               make([]string, 0, 1),
	}, nil
}

// AssignRole grants a role once
func (u *User) AssignRole(role string) {
	if u.HasRole(role) {
		return
	}
	u.Roles = append(u.Roles, role)
}

// HasRole reports whether the user holds the role
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CheckPassword compares a plaintext password with the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}
