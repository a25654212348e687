package events

import (
	"sync"
)

// Kind identifies what a single emission describes. One emission is produced
// per applied update, after the update has been folded into local state.
type Kind string

const (
	VersionDetected                 Kind = "versionDetected"
	AuthorizationStateChanged       Kind = "authorizationStateChanged"
	OptionUpdated                   Kind = "optionUpdated"
	OwnUserIdFound                  Kind = "ownUserIdFound"
	ConnectionStateChanged          Kind = "connectionStateChanged"
	UserUpdated                     Kind = "userUpdated"
	FileUpdated                     Kind = "fileUpdated"
	NewChatDiscovered               Kind = "newChatDiscovered"
	UnreadMessageCountUpdated       Kind = "unreadMessageCountUpdated"
	UnreadChatCountUpdated          Kind = "unreadChatCountUpdated"
	ChatLastMessageUpdated          Kind = "chatLastMessageUpdated"
	ChatOrderUpdated                Kind = "chatOrderUpdated"
	ChatReadInboxUpdated            Kind = "chatReadInboxUpdated"
	ChatReadOutboxUpdated           Kind = "chatReadOutboxUpdated"
	BasicGroupUpdated               Kind = "basicGroupUpdated"
	SuperGroupUpdated               Kind = "superGroupUpdated"
	ChatOnlineMemberCountUpdated    Kind = "chatOnlineMemberCountUpdated"
	MessagesReceived                Kind = "messagesReceived"
	NewMessageReceived              Kind = "newMessageReceived"
	MessageInformation              Kind = "messageInformation"
	MessageSendSucceeded            Kind = "messageSendSucceeded"
	ActiveNotificationsUpdated      Kind = "activeNotificationsUpdated"
	NotificationGroupUpdated        Kind = "notificationGroupUpdated"
	NotificationUpdated             Kind = "notificationUpdated"
	ChatNotificationSettingsUpdated Kind = "chatNotificationSettingsUpdated"
	MessageContentUpdated           Kind = "messageContentUpdated"
	MessagesDeleted                 Kind = "messagesDeleted"
)

// Event carries entity kind, id and resulting value of one applied update.
// Which fields are set depends on Kind; groups are referenced by id only,
// subscribers look the record up through the registry.
type Event struct {
	Kind         Kind           `json:"kind"`
	ChatId       string         `json:"chat_id,omitempty"`
	UserId       string         `json:"user_id,omitempty"`
	GroupId      int64          `json:"group_id,omitempty"`
	MessageId    string         `json:"message_id,omitempty"`
	OldMessageId string         `json:"old_message_id,omitempty"`
	Name         string         `json:"name,omitempty"`
	Order        string         `json:"order,omitempty"`
	Count        int64          `json:"count,omitempty"`
	Value        any            `json:"value,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	List         []any          `json:"list,omitempty"`
}

type Handler func(Event)

// Bus fans one event out to every subscriber, synchronously and in
// subscription order. Publish is called from the update receiver after each
// state mutation, so handlers always observe already-consistent state.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

// Publish delivers e to all subscribers before returning. No batching or
// coalescing: emissions preserve the arrival order of the updates that
// produced them.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
