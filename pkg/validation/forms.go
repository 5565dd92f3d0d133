package validation

type SignInForm struct {
	Email    string `json:"email" validate:"required,shopemail"`
	Password string `json:"password" validate:"required"`
}

type SignUpForm struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,shopemail"`
	Password string `json:"password" validate:"required,shoppassword"`
}

type ResetForm struct {
	Email string `json:"email" validate:"required,shopemail"`
}

type NewPasswordForm struct {
	Password     string `json:"password" validate:"required,shoppassword"`
	Confirmation string `json:"confirmation" validate:"required,eqfield=Password"`
}

// CheckoutForm is the contact, address and card data entered before placing an order.
type CheckoutForm struct {
	Email   string `json:"email" validate:"required,shopemail"`
	Phone   string `json:"phone" validate:"notblank"`
	Address string `json:"address" validate:"notblank"`
	Card    string `json:"card" validate:"required,min=16"`
}

// CheckoutValid reports whether the form would pass Struct; used to enable the order button.
func (v *Validator) CheckoutValid(form CheckoutForm) bool {
	return v.Email(form.Email) == "" &&
		!blank(form.Phone) &&
		!blank(form.Address) &&
		!blank(form.Card) && len(form.Card) >= MinCardLength
}
