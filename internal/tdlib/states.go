package tdlib

type AuthorizationState int32

const (
	AuthorizationStateUnknown AuthorizationState = iota
	AuthorizationStateClosed
	AuthorizationStateClosing
	AuthorizationStateLoggingOut
	AuthorizationStateReady
	AuthorizationStateWaitCode
	AuthorizationStateWaitOtherDeviceConfirmation
	AuthorizationStateWaitPassword
	AuthorizationStateWaitPhoneNumber
	AuthorizationStateWaitRegistration
	AuthorizationStateWaitTdlibParameters
)

var authorizationStates = map[string]AuthorizationState{
	"authorizationStateClosed":                      AuthorizationStateClosed,
	"authorizationStateClosing":                     AuthorizationStateClosing,
	"authorizationStateLoggingOut":                  AuthorizationStateLoggingOut,
	"authorizationStateReady":                       AuthorizationStateReady,
	"authorizationStateWaitCode":                    AuthorizationStateWaitCode,
	"authorizationStateWaitOtherDeviceConfirmation": AuthorizationStateWaitOtherDeviceConfirmation,
	"authorizationStateWaitPassword":                AuthorizationStateWaitPassword,
	"authorizationStateWaitPhoneNumber":             AuthorizationStateWaitPhoneNumber,
	"authorizationStateWaitRegistration":            AuthorizationStateWaitRegistration,
	"authorizationStateWaitTdlibParameters":         AuthorizationStateWaitTdlibParameters,
}

func AuthorizationStateFromString(state string) AuthorizationState {
	return authorizationStates[state]
}

func (s AuthorizationState) String() string {
	for name, state := range authorizationStates {
		if state == s {
			return name
		}
	}

	return "authorizationStateUnknown"
}

type ConnectionState int32

const (
	ConnectionStateUnknown ConnectionState = iota
	ConnectionStateConnecting
	ConnectionStateConnectingToProxy
	ConnectionStateReady
	ConnectionStateUpdating
	ConnectionStateWaitingForNetwork
)

var connectionStates = map[string]ConnectionState{
	"connectionStateConnecting":        ConnectionStateConnecting,
	"connectionStateConnectingToProxy": ConnectionStateConnectingToProxy,
	"connectionStateReady":             ConnectionStateReady,
	"connectionStateUpdating":          ConnectionStateUpdating,
	"connectionStateWaitingForNetwork": ConnectionStateWaitingForNetwork,
}

func ConnectionStateFromString(state string) ConnectionState {
	return connectionStates[state]
}

func (s ConnectionState) String() string {
	for name, state := range connectionStates {
		if state == s {
			return name
		}
	}

	return "connectionStateUnknown"
}
