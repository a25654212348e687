package tdlib

import (
	"log"

	"github.com/ygriega/fernschreiber/internal/events"
	"github.com/ygriega/fernschreiber/internal/helpers"
)

// classify routes one envelope to exactly one handler by its discriminator
// tag. Unknown tags are logged and dropped without touching any state. Each
// handler fully applies its mutation before the bus emission fires.
func (w *Wrapper) classify(env *Envelope) {
	switch env.Type {
	case tagUpdateAuthorizationState:
		w.handleAuthorizationState(env.Data)
	case tagUpdateOption:
		w.handleOption(env.Data)
	case tagUpdateConnectionState:
		w.handleConnectionState(env.Data)
	case tagUpdateUser:
		w.handleUser(env.Data)
	case tagUpdateUserStatus:
		w.handleUserStatus(env.Data)
	case tagUpdateFile:
		w.handleFile(env.Data)
	case tagUpdateNewChat:
		w.handleNewChat(env.Data)
	case tagUpdateUnreadMessageCount:
		w.handleUnreadMessageCount(env.Data)
	case tagUpdateUnreadChatCount:
		w.handleUnreadChatCount(env.Data)
	case tagUpdateChatLastMessage:
		w.handleChatLastMessage(env.Data)
	case tagUpdateChatPosition:
		w.handleChatPosition(env.Data)
	case tagUpdateChatReadInbox:
		w.handleChatReadInbox(env.Data)
	case tagUpdateChatReadOutbox:
		w.handleChatReadOutbox(env.Data)
	case tagUpdateBasicGroup:
		w.handleBasicGroup(env.Data)
	case tagUpdateSupergroup:
		w.handleSuperGroup(env.Data)
	case tagUpdateChatOnlineMemberCount:
		w.handleChatOnlineMemberCount(env.Data)
	case tagMessages:
		w.handleMessages(env.Data)
	case tagUpdateNewMessage:
		w.handleNewMessage(env.Data)
	case tagMessage:
		w.handleMessageInformation(env.Data)
	case tagUpdateMessageSendSucceeded:
		w.handleMessageSendSucceeded(env.Data)
	case tagUpdateActiveNotifications:
		w.handleActiveNotifications(env.Data)
	case tagUpdateNotificationGroup:
		w.handleNotificationGroup(env.Data)
	case tagUpdateNotification:
		w.handleNotification(env.Data)
	case tagUpdateChatNotificationSettings:
		w.handleChatNotificationSettings(env.Data)
	case tagUpdateMessageContent:
		w.handleMessageContent(env.Data)
	case tagUpdateDeleteMessages:
		w.handleDeleteMessages(env.Data)

	case "ok", "error", "chats", "chat", "user", "updateHavePendingNotifications",
		"updateScopeNotificationSettings", "updateChatAction", "updateChatFolders",
		"updateChatAddedToList", "updateChatRemovedFromList", "updateDefaultBackground",
		"updateChatThemes", "updateDiceEmojis", "updateActiveEmojiReactions",
		"updateAttachmentMenuBots", "updateAnimationSearchParameters",
		"updateAccentColors", "updateProfileAccentColors", "updateStoryStealthMode",
		"updateSpeechRecognitionTrial", "updateFileDownloads", "updateSuggestedActions",
		"updateChatDraftMessage", "updateMessageInteractionInfo", "updateMessageEdited":
		// delivered on the same stream but irrelevant for local state

	default:
		log.Printf("dropping unknown update %s: %s", env.Type, helpers.JsonMarshalStr(env.Data))
	}
}

func (w *Wrapper) handleAuthorizationState(data map[string]any) {
	stateType := helpers.FieldStr(helpers.FieldMap(data, "authorization_state"), "@type")
	state := AuthorizationStateFromString(stateType)

	w.mu.Lock()
	w.authorizationState = state
	w.mu.Unlock()

	w.bus.Publish(events.Event{Kind: events.AuthorizationStateChanged, Value: state})
}

func (w *Wrapper) handleOption(data map[string]any) {
	name := helpers.FieldStr(data, "name")
	if name == "" {
		return
	}
	value := helpers.FieldMap(data, "value")["value"]

	if name == "version" {
		version := helpers.ScalarStr(value)
		w.mu.Lock()
		w.version = version
		w.mu.Unlock()
		w.bus.Publish(events.Event{Kind: events.VersionDetected, Value: version})
		return
	}

	changed := w.store.RecordOption(name, value)
	w.bus.Publish(events.Event{Kind: events.OptionUpdated, Name: name, Value: value})
	if name == "my_id" && changed {
		w.bus.Publish(events.Event{Kind: events.OwnUserIdFound, UserId: helpers.ScalarStr(value)})
	}
}

func (w *Wrapper) handleConnectionState(data map[string]any) {
	stateType := helpers.FieldStr(helpers.FieldMap(data, "state"), "@type")
	state := ConnectionStateFromString(stateType)

	w.mu.Lock()
	w.connectionState = state
	w.mu.Unlock()

	w.bus.Publish(events.Event{Kind: events.ConnectionStateChanged, Value: state})
}

func (w *Wrapper) handleUser(data map[string]any) {
	user := helpers.FieldMap(data, "user")
	userId := helpers.FieldIdStr(user, "id")
	if userId == "" {
		return
	}
	record := w.store.UpsertUser(userId, user)
	w.bus.Publish(events.Event{Kind: events.UserUpdated, UserId: userId, Data: record})
}

func (w *Wrapper) handleUserStatus(data map[string]any) {
	userId := helpers.FieldIdStr(data, "user_id")
	if userId == "" {
		return
	}
	status := helpers.FieldMap(data, "status")
	record := w.store.UpdateUserStatus(userId, status)
	w.bus.Publish(events.Event{Kind: events.UserUpdated, UserId: userId, Data: record})
}

func (w *Wrapper) handleFile(data map[string]any) {
	file := helpers.FieldMap(data, "file")
	if file == nil {
		return
	}
	w.bus.Publish(events.Event{Kind: events.FileUpdated, Value: helpers.FieldInt64(file, "id"), Data: file})
}

func (w *Wrapper) handleNewChat(data map[string]any) {
	chat := helpers.FieldMap(data, "chat")
	chatId := helpers.FieldIdStr(chat, "id")
	if chatId == "" {
		return
	}
	record := w.store.UpsertChat(chatId, chat)
	w.bus.Publish(events.Event{Kind: events.NewChatDiscovered, ChatId: chatId, Data: record})
}

func (w *Wrapper) handleUnreadMessageCount(data map[string]any) {
	if !w.store.UpdateUnreadMessageCount(data) {
		return
	}
	w.bus.Publish(events.Event{Kind: events.UnreadMessageCountUpdated, Data: data})
}

func (w *Wrapper) handleUnreadChatCount(data map[string]any) {
	if !w.store.UpdateUnreadChatCount(data) {
		return
	}
	w.bus.Publish(events.Event{Kind: events.UnreadChatCountUpdated, Data: data})
}

func (w *Wrapper) handleChatLastMessage(data map[string]any) {
	chatId := helpers.FieldIdStr(data, "chat_id")
	if chatId == "" {
		return
	}
	lastMessage := helpers.FieldMap(data, "last_message")
	order := firstPositionOrder(data)

	fields := map[string]any{"last_message": lastMessage}
	if order != "" {
		fields["order"] = order
	}
	w.store.UpsertChat(chatId, fields)
	w.bus.Publish(events.Event{Kind: events.ChatLastMessageUpdated, ChatId: chatId, Order: order, Data: lastMessage})
}

func (w *Wrapper) handleChatPosition(data map[string]any) {
	chatId := helpers.FieldIdStr(data, "chat_id")
	if chatId == "" {
		return
	}
	position := helpers.FieldMap(data, "position")
	order := helpers.FieldIdStr(position, "order")

	fields := map[string]any{"position": position}
	if order != "" {
		fields["order"] = order
	}
	w.store.UpsertChat(chatId, fields)
	w.bus.Publish(events.Event{Kind: events.ChatOrderUpdated, ChatId: chatId, Order: order})
}

// firstPositionOrder extracts the main-list order from a positions list, the
// shape updateChatLastMessage reports ordering in.
func firstPositionOrder(data map[string]any) string {
	for _, p := range helpers.FieldList(data, "positions") {
		position, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if order := helpers.FieldIdStr(position, "order"); order != "" {
			return order
		}
	}

	return ""
}

func (w *Wrapper) handleChatReadInbox(data map[string]any) {
	chatId := helpers.FieldIdStr(data, "chat_id")
	if chatId == "" {
		return
	}
	lastRead := helpers.FieldIdStr(data, "last_read_inbox_message_id")
	unreadCount := helpers.FieldInt64(data, "unread_count")

	w.store.UpsertChat(chatId, map[string]any{
		"last_read_inbox_message_id": lastRead,
		"unread_count":               unreadCount,
	})
	w.bus.Publish(events.Event{Kind: events.ChatReadInboxUpdated, ChatId: chatId, MessageId: lastRead, Count: unreadCount})
}

func (w *Wrapper) handleChatReadOutbox(data map[string]any) {
	chatId := helpers.FieldIdStr(data, "chat_id")
	if chatId == "" {
		return
	}
	lastRead := helpers.FieldIdStr(data, "last_read_outbox_message_id")

	w.store.UpsertChat(chatId, map[string]any{"last_read_outbox_message_id": lastRead})
	w.bus.Publish(events.Event{Kind: events.ChatReadOutboxUpdated, ChatId: chatId, MessageId: lastRead})
}

func (w *Wrapper) handleBasicGroup(data map[string]any) {
	info := helpers.FieldMap(data, "basic_group")
	groupId := helpers.FieldInt64(info, "id")
	if groupId == 0 {
		return
	}
	group := w.groups.UpdateBasicGroup(groupId, info)
	w.bus.Publish(events.Event{Kind: events.BasicGroupUpdated, GroupId: group.Id})
}

func (w *Wrapper) handleSuperGroup(data map[string]any) {
	info := helpers.FieldMap(data, "supergroup")
	groupId := helpers.FieldInt64(info, "id")
	if groupId == 0 {
		return
	}
	group := w.groups.UpdateSuperGroup(groupId, info)
	w.bus.Publish(events.Event{Kind: events.SuperGroupUpdated, GroupId: group.Id})
}

func (w *Wrapper) handleChatOnlineMemberCount(data map[string]any) {
	chatId := helpers.FieldIdStr(data, "chat_id")
	if chatId == "" {
		return
	}
	count := helpers.FieldInt64(data, "online_member_count")

	w.store.UpsertChat(chatId, map[string]any{"online_member_count": count})
	w.bus.Publish(events.Event{Kind: events.ChatOnlineMemberCountUpdated, ChatId: chatId, Count: count})
}

func (w *Wrapper) handleMessages(data map[string]any) {
	messages := helpers.FieldList(data, "messages")
	if messages == nil {
		return
	}
	w.bus.Publish(events.Event{Kind: events.MessagesReceived, List: messages})
}

func (w *Wrapper) handleNewMessage(data map[string]any) {
	message := helpers.FieldMap(data, "message")
	chatId := helpers.FieldIdStr(message, "chat_id")
	if chatId == "" {
		return
	}
	w.bus.Publish(events.Event{Kind: events.NewMessageReceived, ChatId: chatId, Data: message})
}

func (w *Wrapper) handleMessageInformation(data map[string]any) {
	messageId := helpers.FieldIdStr(data, "id")
	if messageId == "" {
		return
	}
	w.bus.Publish(events.Event{Kind: events.MessageInformation, MessageId: messageId, Data: data})
}

func (w *Wrapper) handleMessageSendSucceeded(data map[string]any) {
	message := helpers.FieldMap(data, "message")
	messageId := helpers.FieldIdStr(message, "id")
	oldMessageId := helpers.FieldIdStr(data, "old_message_id")
	if messageId == "" {
		return
	}
	w.bus.Publish(events.Event{
		Kind:         events.MessageSendSucceeded,
		ChatId:       helpers.FieldIdStr(message, "chat_id"),
		MessageId:    messageId,
		OldMessageId: oldMessageId,
		Data:         message,
	})
}

func (w *Wrapper) handleActiveNotifications(data map[string]any) {
	groups := helpers.FieldList(data, "groups")
	w.bus.Publish(events.Event{Kind: events.ActiveNotificationsUpdated, List: groups})
}

func (w *Wrapper) handleNotificationGroup(data map[string]any) {
	w.bus.Publish(events.Event{
		Kind:    events.NotificationGroupUpdated,
		GroupId: helpers.FieldInt64(data, "notification_group_id"),
		ChatId:  helpers.FieldIdStr(data, "chat_id"),
		Data:    data,
	})
}

func (w *Wrapper) handleNotification(data map[string]any) {
	w.bus.Publish(events.Event{
		Kind:    events.NotificationUpdated,
		GroupId: helpers.FieldInt64(data, "notification_group_id"),
		Data:    data,
	})
}

func (w *Wrapper) handleChatNotificationSettings(data map[string]any) {
	chatId := helpers.FieldIdStr(data, "chat_id")
	if chatId == "" {
		return
	}
	settings := helpers.FieldMap(data, "notification_settings")

	w.store.UpsertChat(chatId, map[string]any{"notification_settings": settings})
	w.bus.Publish(events.Event{Kind: events.ChatNotificationSettingsUpdated, ChatId: chatId, Data: settings})
}

func (w *Wrapper) handleMessageContent(data map[string]any) {
	chatId := helpers.FieldIdStr(data, "chat_id")
	messageId := helpers.FieldIdStr(data, "message_id")
	if chatId == "" || messageId == "" {
		return
	}
	newContent := helpers.FieldMap(data, "new_content")
	w.bus.Publish(events.Event{Kind: events.MessageContentUpdated, ChatId: chatId, MessageId: messageId, Data: newContent})
}

func (w *Wrapper) handleDeleteMessages(data map[string]any) {
	if !helpers.FieldBool(data, "is_permanent") || helpers.FieldBool(data, "from_cache") {
		return
	}
	chatId := helpers.FieldIdStr(data, "chat_id")
	if chatId == "" {
		return
	}
	messageIds := helpers.FieldList(data, "message_ids")
	w.bus.Publish(events.Event{Kind: events.MessagesDeleted, ChatId: chatId, List: messageIds})
}
