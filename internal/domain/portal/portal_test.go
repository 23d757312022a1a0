package portal

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

func TestNewWebsiteUser(t *testing.T) {
	u, err := NewWebsiteUser(uuid.New(), " Jane.Doe@Example.com ", "s3cretpass", "", "Doe", "+1 555")
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", u.Email)
	assert.Equal(t, "jane.doe", u.FirstName)
	assert.Equal(t, UserTypeWebsite, u.UserType)
	assert.True(t, u.Enabled)
	assert.True(t, u.CheckPassword("s3cretpass"))
	assert.False(t, u.CheckPassword("wrong-pass"))
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)
}

func TestNewWebsiteUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"bad email", "not-an-email", "s3cretpass"},
		{"empty password", "a@b.co", ""},
		{"short password", "a@b.co", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWebsiteUser(uuid.New(), tt.email, tt.password, "", "", "")
			assert.Error(t, err)
		})
	}
}

func TestUser_AssignRole(t *testing.T) {
	u := &User{}
	u.AssignRole(RoleCustomer)
	u.AssignRole(RoleCustomer)
	assert.Equal(t, []string{RoleCustomer}, u.Roles)
	assert.True(t, u.HasRole(RoleCustomer))
}

func TestNewRegisteredCustomer(t *testing.T) {
	tenant := uuid.New()

	c, err := NewRegisteredCustomer(tenant, "Acme Corp", "Jane", "Doe", "jane@acme.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", c.CustomerName)
	assert.Equal(t, CustomerTypeCompany, c.CustomerType)

	c, err = NewRegisteredCustomer(tenant, "", "Jane", "Doe", "jane@acme.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", c.CustomerName)
	assert.Equal(t, CustomerTypeIndividual, c.CustomerType)

	_, err = NewRegisteredCustomer(tenant, "", "", "", "jane@acme.com", "")
	assert.Error(t, err)
}

func TestNewCustomerAddress(t *testing.T) {
	tenant := uuid.New()
	u, err := NewWebsiteUser(tenant, "jane@acme.com", "s3cretpass", "Jane", "", "")
	require.NoError(t, err)
	c, err := NewRegisteredCustomer(tenant, "Acme Corp", "", "", u.Email, "")
	require.NoError(t, err)

	a, err := NewCustomerAddress(tenant, c, u, AddressInput{AddressLine1: "1 Main St", City: "Lahore", PostalCode: "54000", Country: "Pakistan"})
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", a.AddressTitle)
	assert.Equal(t, "54000", a.Pincode)
	assert.Equal(t, []AddressLink{
		{LinkDoctype: "Customer", LinkName: "Acme Corp"},
		{LinkDoctype: "User", LinkName: "jane@acme.com"},
	}, a.Links)

	_, err = NewCustomerAddress(tenant, c, u, AddressInput{City: "Lahore"})
	assert.Error(t, err)
}
