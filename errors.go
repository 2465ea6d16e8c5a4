package session

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeEmptySignature        = "EMPTY_SIGNATURE"
	textCodeEmptyClarification    = "EMPTY_CLARIFICATION"
	textCodeInvalidRegisterReply  = "INVALID_REGISTER_RESPONSE"
	textCodeNoActiveSession       = "NO_ACTIVE_SESSION"
	textCodeCredentialExpired     = "CREDENTIAL_EXPIRED"
	textCodeEnrollmentNotRequired = "ENROLLMENT_NOT_REQUIRED"
)

// Fallback messages shown when a rejection carries no usable message.
const (
	MsgSignInFallback   = "Error de autenticación"
	MsgRegisterFallback = "Error en el registro"
	MsgUploadFallback   = "Error al subir la firma"
	MsgProfileFallback  = "Error al actualizar el perfil"
)

// ErrEmptySignature rejects enrollment confirmation without a drawing.
var ErrEmptySignature = goerrors.New("Por favor, dibuje su firma para continuar", goerrors.CategoryValidation).
	WithTextCode(textCodeEmptySignature).
	WithCode(goerrors.CodeBadRequest)

// ErrEmptyClarification rejects enrollment confirmation without the name clarification.
var ErrEmptyClarification = goerrors.New("Por favor, ingrese su nombre y apellido para la aclaración", goerrors.CategoryValidation).
	WithTextCode(textCodeEmptyClarification).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidRegisterResponse is returned when the registration endpoint
// resolves without a wrapped user payload.
var ErrInvalidRegisterResponse = goerrors.New("Respuesta de registro inválida", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidRegisterReply).
	WithCode(goerrors.CodeBadRequest)

// ErrNoActiveSession is the silent-absence outcome of a session check.
// It never reaches the container's error field.
var ErrNoActiveSession = goerrors.New("no active session", goerrors.CategoryAuth).
	WithTextCode(textCodeNoActiveSession).
	WithCode(goerrors.CodeUnauthorized)

// ErrCredentialExpired marks a locally stored token whose expiry is past.
var ErrCredentialExpired = goerrors.New("stored credential is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeCredentialExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrEnrollmentNotRequired is returned when the flow runs for a user
// whose signature enrollment is already settled.
var ErrEnrollmentNotRequired = goerrors.New("signature enrollment is not required", goerrors.CategoryConflict).
	WithTextCode(textCodeEnrollmentNotRequired).
	WithCode(goerrors.CodeConflict)

// userMessage normalizes any rejection into the plain string the
// container stores. Rich errors contribute their message, plain errors
// their Error() text, and nil/empty fall back to the provided default.
func userMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
