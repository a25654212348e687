package tdlib

import (
	"context"
	"log"
	"time"

	"github.com/zelenin/go-tdlib/client"
)

type clientAuthorizer struct {
	TdlibParameters *client.SetTdlibParametersRequest
	PhoneNumber     chan string
	Code            chan string
	State           chan client.AuthorizationState
	Password        chan string
}

func ClientAuthorizer(tdlibParameters *client.SetTdlibParametersRequest) *clientAuthorizer {
	return &clientAuthorizer{
		TdlibParameters: tdlibParameters,
		PhoneNumber:     make(chan string, 1),
		Code:            make(chan string, 1),
		State:           make(chan client.AuthorizationState, 10),
		Password:        make(chan string, 1),
	}
}

func (stateHandler *clientAuthorizer) Handle(tdcl *client.Client, state client.AuthorizationState) error {
	ctx, done := context.WithDeadline(context.Background(), time.Now().Add(60*time.Second))
	defer done()
	stateHandler.State <- state

	switch state.AuthorizationStateConstructor() {
	case client.ConstructorAuthorizationStateWaitTdlibParameters:
		_, err := tdcl.SetTdlibParameters(ctx, stateHandler.TdlibParameters)
		return err

	case client.ConstructorAuthorizationStateWaitPhoneNumber:
		_, err := tdcl.SetAuthenticationPhoneNumber(ctx, &client.SetAuthenticationPhoneNumberRequest{
			PhoneNumber: <-stateHandler.PhoneNumber,
			Settings: &client.PhoneNumberAuthenticationSettings{
				AllowFlashCall:       false,
				IsCurrentPhoneNumber: true,
				AllowSmsRetrieverApi: false,
			},
		})
		return err

	case client.ConstructorAuthorizationStateWaitCode:
		_, err := tdcl.CheckAuthenticationCode(ctx, &client.CheckAuthenticationCodeRequest{
			Code: <-stateHandler.Code,
		})
		return err

	case client.ConstructorAuthorizationStateWaitPassword:
		_, err := tdcl.CheckAuthenticationPassword(ctx, &client.CheckAuthenticationPasswordRequest{
			Password: <-stateHandler.Password,
		})
		return err

	case client.ConstructorAuthorizationStateReady:
		return nil

	case client.ConstructorAuthorizationStateClosing:
		return nil

	case client.ConstructorAuthorizationStateClosed:
		return nil
	}

	return client.NotSupportedAuthorizationState(state)
}

func (stateHandler *clientAuthorizer) Close() {
	close(stateHandler.PhoneNumber)
	close(stateHandler.Code)
	close(stateHandler.State)
	close(stateHandler.Password)
}

// ChanInteractor feeds the authorizer: the phone number comes from config,
// login code and password come from whoever calls SetAuthenticationCode /
// SetAuthenticationPassword (they write into nextParams).
func ChanInteractor(clientAuthorizer *clientAuthorizer, phone string, nextParams chan string) {
	phoneSet := false
	codeSet := false
	passwordSet := false

	for {
		state, ok := <-clientAuthorizer.State
		if !ok {
			log.Printf("authorization process closed")

			return
		}
		log.Printf("authorization state: %s", state.AuthorizationStateConstructor())

		switch state.AuthorizationStateConstructor() {
		case client.ConstructorAuthorizationStateWaitPhoneNumber:
			if phoneSet {
				continue
			}
			clientAuthorizer.PhoneNumber <- phone
			phoneSet = true

		case client.ConstructorAuthorizationStateWaitCode:
			if codeSet {
				continue
			}
			log.Printf("waiting for authentication code")
			clientAuthorizer.Code <- <-nextParams
			codeSet = true

		case client.ConstructorAuthorizationStateWaitPassword:
			if passwordSet {
				continue
			}
			log.Printf("waiting for authentication password")
			clientAuthorizer.Password <- <-nextParams
			passwordSet = true
		}
	}
}
