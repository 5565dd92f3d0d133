package validation

import (
	"testing"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmail(t *testing.T) {
	v := New(0)
	tests := []struct {
		email string
		want  string
	}{
		{email: "abc@gmail.com", want: ""},
		{email: "abc@@gmail", want: MsgEmailFormat},
		{email: "", want: MsgEmailEmpty},
		{email: "   ", want: MsgEmailEmpty},
		{email: "ABC@gmail.com", want: MsgEmailFormat},
		{email: "a.b@gmail.com", want: MsgEmailFormat},
		{email: "abc@gmail.c", want: MsgEmailFormat},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, v.Email(tt.email), "email %q", tt.email)
	}
}

func TestPasswordAndName(t *testing.T) {
	v := New(6)
	assert.Equal(t, MsgPasswordEmpty, v.Password(" "))
	assert.Equal(t, "password must be at least 6 characters", v.Password("12345"))
	assert.Equal(t, "", v.Password("123456"))
	assert.Equal(t, MsgNameEmpty, v.Name(""))
	assert.Equal(t, "", v.Name("Ann"))
	assert.Equal(t, 6, v.MinPasswordLength())
}

func TestConfirm(t *testing.T) {
	v := New(6)
	assert.Equal(t, MsgPasswordEmpty, v.Confirm("", "x"))
	assert.Equal(t, MsgConfirmEmpty, v.Confirm("secret1", ""))
	assert.Equal(t, "password must be at least 6 characters", v.Confirm("abc", "abc"))
	assert.Equal(t, MsgPasswordsMismatch, v.Confirm("secret1", "secret2"))
	assert.Equal(t, "", v.Confirm("secret1", "secret1"))
}

func TestStructReportsFieldDetails(t *testing.T) {
	v := New(8)
	err := v.Struct(SignUpForm{Name: " ", Email: "bad", Password: "short"})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, MsgEmailFormat, details["email"])
	assert.Equal(t, "password must be at least 8 characters", details["password"])

	assert.NoError(t, v.Struct(SignUpForm{Name: "Ann", Email: "ann@mail.ru", Password: "longenough"}))
}

func TestNewPasswordFormMismatch(t *testing.T) {
	v := New(6)
	err := v.Struct(NewPasswordForm{Password: "secret1", Confirmation: "secret2"})
	require.Error(t, err)
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, MsgPasswordsMismatch, details["confirmation"])
}

func TestCheckoutForm(t *testing.T) {
	v := New(6)
	valid := CheckoutForm{Email: "abc@gmail.com", Phone: "+7 900", Address: "Main st 1", Card: "1234567812345678"}
	assert.True(t, v.CheckoutValid(valid))
	assert.NoError(t, v.Struct(valid))

	shortCard := valid
	shortCard.Card = "1234"
	assert.False(t, v.CheckoutValid(shortCard))
	assert.Error(t, v.Struct(shortCard))

	noPhone := valid
	noPhone.Phone = "  "
	assert.False(t, v.CheckoutValid(noPhone))
	err := v.Struct(noPhone)
	require.Error(t, err)
	assert.Equal(t, "is required", pkgerrors.As(err).Details().(map[string]string)["phone"])
}
