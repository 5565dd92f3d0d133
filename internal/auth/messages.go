package auth

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/supabase"
)

const (
	MsgInvalidCredentials = "invalid email or password"
	MsgAuthFailed         = "authorization failed, check your details"
	MsgTooManyAttempts    = "too many attempts, please wait a little"
	MsgNoUserID           = "server did not return a user id"
	MsgEmailTooShort      = "email needs at least 6 characters before @, for example abc@gmail.com"
	MsgAlreadyRegistered  = "this email is already registered"
	MsgSignUpRateLimit    = "too many attempts, use another email or wait a little"
	MsgInvalidData        = "invalid data"
	MsgEmailRequired      = "enter your email"
	MsgUserNotFound       = "no user with this email was found"
	MsgResetAlreadySent   = "email already sent, check your inbox"
	MsgResetUserMissing   = "user not found"
)

func msgWeakPassword(min int) string {
	return fmt.Sprintf("password is too short, minimum length is %d characters", min)
}

func msgServerError(status int) string {
	return fmt.Sprintf("server error: %d", status)
}

func msgResetCooldown(seconds int) string {
	return fmt.Sprintf("wait %d seconds before requesting another email", seconds)
}

// signInError maps a failed password grant to the message shown to the shopper.
func signInError(err error) error {
	apiErr, ok := supabase.AsAPIError(err)
	if !ok {
		return err
	}
	switch {
	case apiErr.Contains("invalid_grant") || apiErr.Status == http.StatusBadRequest:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MsgInvalidCredentials)
	case apiErr.Status == http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, MsgAuthFailed)
	case apiErr.Status == http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, MsgTooManyAttempts)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgServerError(apiErr.Status))
	}
}

// signUpError checks the body for known GoTrue error codes before falling back to the status.
func signUpError(err error, minPassword int) error {
	apiErr, ok := supabase.AsAPIError(err)
	if !ok {
		return err
	}
	switch {
	case apiErr.Contains("email_address_invalid"):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, MsgEmailTooShort)
	case apiErr.Contains("user_already_exists"), apiErr.Contains("already registered"):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, MsgAlreadyRegistered)
	case apiErr.Contains("weak_password"):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgWeakPassword(minPassword))
	case apiErr.Contains("over_email_send_rate_limit"):
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, MsgSignUpRateLimit)
	case apiErr.Status == http.StatusBadRequest:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, MsgInvalidData)
	case apiErr.Status == http.StatusUnprocessableEntity:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, MsgAlreadyRegistered)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgServerError(apiErr.Status))
	}
}

func resetError(err error) error {
	apiErr, ok := supabase.AsAPIError(err)
	if !ok {
		return err
	}
	switch apiErr.Status {
	case http.StatusTooManyRequests:
		return pkgerrors.Wrap(pkgerrors.CodeRateLimit, err, MsgResetAlreadySent)
	case http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, MsgResetUserMissing)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("could not send email: %d", apiErr.Status))
	}
}
