package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/lms/internal/transport"
)

func TestValidate_OK(t *testing.T) {
	v := New()
	err := v.Validate(&transport.SignupRequest{Name: "Ann", Email: "ann@x.io", Password: "secret1"})
	assert.NoError(t, err)
}

func TestValidate_FieldMessages(t *testing.T) {
	v := New()

	err := v.Validate(&transport.SignupRequest{Email: "nope", Password: "123", Role: "admin"})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "name is a required field", verr.Fields["name"])
	assert.Equal(t, "email must be a valid email address", verr.Fields["email"])
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "role")
	assert.NotContains(t, verr.Error(), "SignupRequest")
}

func TestValidate_Dive(t *testing.T) {
	v := New()

	req := transport.OnboardRequest{Name: "Ann", Email: "ann@x.io", Password: "secret1", Experience: "10y"}
	err := v.Validate(&req)
	require.Error(t, err)

	req.Qualifications = []string{"PhD", ""}
	err = v.Validate(&req)
	require.Error(t, err)

	req.Qualifications = []string{"PhD"}
	assert.NoError(t, v.Validate(&req))
}

func TestValidate_UUIDs(t *testing.T) {
	v := New()
	assert.Error(t, v.Validate(&transport.EnrollRequest{CourseID: "42"}))
	assert.NoError(t, v.Validate(&transport.EnrollRequest{CourseID: "7d444840-9dc0-11d1-b245-5ffdce74fad2"}))
}
