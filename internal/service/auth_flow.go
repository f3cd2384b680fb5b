// Package service implements the asynchronous submission flows: the auth
// dialog, review creation, order creation and the manager's order-status
// updates. Each flow owns its form state and applies network results
// atomically, skipping them entirely once the owning view is closed.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/api"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/forms"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/modal"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/session"
	"github.com/AHTupoB-AHDpeU/frontend-aaa/internal/validate"
)

const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
)

const (
	msgConnectionError   = "Ошибка подключения к серверу"
	msgInvalidCreds      = "Неверные учетные данные"
	msgRegisterOK        = "Регистрация прошла успешно! Теперь вы можете войти."
	msgDuplicateUsername = "Пользователь с таким email уже существует"
	msgInvalidEmail      = "Некорректный email адрес"
	msgWeakPassword      = "Пароль не удовлетворяет требованиям"
	msgRegisterFailed    = "Произошла ошибка при регистрации"
)

// AuthFlow drives the combined login/registration dialog.
type AuthFlow struct {
	mu        sync.Mutex
	loginMode bool
	form      *forms.State

	sessions *session.Store
	client   *api.Client
	modals   *modal.Controller
	log      zerolog.Logger
}

func NewAuthFlow(sessions *session.Store, client *api.Client, modals *modal.Controller, log zerolog.Logger) *AuthFlow {
	return &AuthFlow{
		loginMode: true,
		form:      forms.New(),
		sessions:  sessions,
		client:    client,
		modals:    modals,
		log:       log,
	}
}

func (f *AuthFlow) Form() *forms.State {
	return f.form
}

// OpenDialog presents the auth modal with a pristine login form; values,
// violations and banners from an earlier attempt never leak into a fresh
// opening. Implements session.AuthPrompt.
func (f *AuthFlow) OpenDialog(showRequiredMessage bool) {
	f.mu.Lock()
	f.loginMode = true
	f.form.Reset()
	f.mu.Unlock()

	payload := &modal.AuthPayload{ShowRequiredMessage: showRequiredMessage}
	if err := f.modals.Open(modal.KindAuth, payload, nil); err != nil {
		f.log.Debug().Err(err).Msg("auth modal not opened")
	}
}

func (f *AuthFlow) LoginMode() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginMode
}

// SetField records an edit. Typing anything hides the
// authentication-required notice, and in registration mode the password
// rules are re-validated reactively.
func (f *AuthFlow) SetField(name, value string) {
	f.mu.Lock()
	f.form.Set(name, value)
	if !f.loginMode && name == FieldPassword {
		f.form.SetViolations(validate.Password(value))
	}
	f.mu.Unlock()

	f.hideRequiredNotice()
}

// SwitchMode toggles between login and registration, dropping the password,
// the violations and any outcome banner.
func (f *AuthFlow) SwitchMode() {
	f.mu.Lock()
	f.loginMode = !f.loginMode
	f.form.Set(FieldPassword, "")
	f.form.SetViolations(nil)
	f.form.ClearOutcome()
	f.mu.Unlock()

	f.hideRequiredNotice()
}

func (f *AuthFlow) hideRequiredNotice() {
	f.modals.MutatePayload(func(payload any) any {
		if auth, ok := payload.(*modal.AuthPayload); ok {
			auth.ShowRequiredMessage = false
		}
		return payload
	})
}

// Submit runs local validation first; a validation failure blocks the
// network call entirely.
func (f *AuthFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	login := f.loginMode
	name := f.form.Get(FieldName)
	email := f.form.Get(FieldEmail)
	password := f.form.Get(FieldPassword)

	violations := f.localViolations(login, name, email, password)
	f.form.SetViolations(violations)
	if len(violations) > 0 || !f.form.BeginSubmit() {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	if login {
		return f.submitLogin(ctx, email, password)
	}
	return f.submitRegister(ctx, name, email, password)
}

func (f *AuthFlow) localViolations(login bool, name, email, password string) []string {
	if login {
		return validate.Required([]validate.RequiredField{
			{Label: "Электронная почта", Value: email},
			{Label: "Пароль", Value: password},
		})
	}

	violations := validate.Required([]validate.RequiredField{
		{Label: "Ваше имя", Value: name},
		{Label: "Электронная почта", Value: email},
		{Label: "Пароль", Value: password},
	})
	if email != "" && !validate.Email(email) {
		violations = append(violations, msgInvalidEmail)
	}
	violations = append(violations, validate.Password(password)...)
	return violations
}

func (f *AuthFlow) submitLogin(ctx context.Context, email, password string) error {
	_, err := f.sessions.Login(ctx, email, password)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.form.Fail(loginFailureMessage(err))
		return err
	}

	f.form.Succeed("")
	f.modals.CloseThen(func() {
		if openErr := f.modals.Open(modal.KindProfile, &modal.ProfilePayload{ShowSuccessMessage: true}, nil); openErr != nil {
			f.log.Debug().Err(openErr).Msg("profile modal not opened")
		}
	})
	return nil
}

func (f *AuthFlow) submitRegister(ctx context.Context, name, email, password string) error {
	err := f.client.Register(ctx, api.RegisterRequest{
		Username:  email,
		Email:     email,
		Password:  password,
		FirstName: name,
	})

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.form.Fail(registerFailureMessage(err))
		return err
	}

	// Back to the login mode with the success banner; the user signs in
	// with the fresh account themselves.
	f.loginMode = true
	f.form.Set(FieldPassword, "")
	f.form.Succeed(msgRegisterOK)
	return nil
}

// Logout clears the session and dismisses the profile modal. The store
// already guarantees local state is wiped even when the server call fails.
func (f *AuthFlow) Logout(ctx context.Context) {
	f.sessions.Logout(ctx)
	f.modals.RequestClose()
}

func loginFailureMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return msgConnectionError
	}
	switch {
	case apiErr.Kind == api.KindConnection:
		return msgConnectionError
	case apiErr.Detail != "":
		return apiErr.Detail
	default:
		return msgInvalidCreds
	}
}

func registerFailureMessage(err error) string {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return msgConnectionError
	}
	switch {
	case apiErr.Kind == api.KindConnection:
		return msgConnectionError
	case apiErr.HasField("username"):
		return msgDuplicateUsername
	case apiErr.HasField("email"):
		return msgInvalidEmail
	case apiErr.HasField("password"):
		return msgWeakPassword
	default:
		return msgRegisterFailed
	}
}
