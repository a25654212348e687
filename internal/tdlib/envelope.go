package tdlib

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Update type tags delivered over TDLib's JSON interface. Responses that
// arrive on the same stream ("message", "messages") are listed alongside the
// update* tags because they are delivered and classified the same way.
const (
	tagUpdateAuthorizationState       = "updateAuthorizationState"
	tagUpdateOption                   = "updateOption"
	tagUpdateConnectionState          = "updateConnectionState"
	tagUpdateUser                     = "updateUser"
	tagUpdateUserStatus               = "updateUserStatus"
	tagUpdateFile                     = "updateFile"
	tagUpdateNewChat                  = "updateNewChat"
	tagUpdateUnreadMessageCount       = "updateUnreadMessageCount"
	tagUpdateUnreadChatCount          = "updateUnreadChatCount"
	tagUpdateChatLastMessage          = "updateChatLastMessage"
	tagUpdateChatPosition             = "updateChatPosition"
	tagUpdateChatReadInbox            = "updateChatReadInbox"
	tagUpdateChatReadOutbox           = "updateChatReadOutbox"
	tagUpdateBasicGroup               = "updateBasicGroup"
	tagUpdateSupergroup               = "updateSupergroup"
	tagUpdateChatOnlineMemberCount    = "updateChatOnlineMemberCount"
	tagMessages                       = "messages"
	tagUpdateNewMessage               = "updateNewMessage"
	tagMessage                        = "message"
	tagUpdateMessageSendSucceeded     = "updateMessageSendSucceeded"
	tagUpdateActiveNotifications      = "updateActiveNotifications"
	tagUpdateNotificationGroup        = "updateNotificationGroup"
	tagUpdateNotification             = "updateNotification"
	tagUpdateChatNotificationSettings = "updateChatNotificationSettings"
	tagUpdateMessageContent           = "updateMessageContent"
	tagUpdateDeleteMessages           = "updateDeleteMessages"
)

// Envelope is one decoded event from the backend: its discriminator tag plus
// the payload as a string-keyed map. Consumed exactly once, never mutated.
type Envelope struct {
	Type string
	Data map[string]any
}

// ParseEnvelope decodes a raw JSON event. Numbers are kept as json.Number so
// 64-bit ids survive the round trip.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode update: %w", err)
	}
	typ, _ := data["@type"].(string)
	if typ == "" {
		return nil, errors.New("update carries no @type")
	}

	return &Envelope{Type: typ, Data: data}, nil
}
