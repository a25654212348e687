package tdlib

import (
	"context"
	"log"

	"github.com/ygriega/fernschreiber/internal/helpers"
	"github.com/zelenin/go-tdlib/client"
)

// Outbound command surface. Every command is fire-and-forget from the point
// of view of local state: errors are logged, responses that matter arrive
// back over the update stream and are folded in like any other event.

func (w *Wrapper) LoadChats(ctx context.Context) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.LoadChatsRequest{ChatList: &client.ChatListMain{}, Limit: 500}
	_, err := w.tdlibClient.LoadChats(ctx, req)
	if err != nil {
		log.Printf("failed to load chats: %s", err)
	}
}

func (w *Wrapper) OpenChat(ctx context.Context, chatId int64) {
	if w.tdlibClient == nil {
		return
	}
	_, err := w.tdlibClient.OpenChat(ctx, &client.OpenChatRequest{ChatId: chatId})
	if err != nil {
		log.Printf("failed to open chat %d: %s", chatId, err)
	}
}

func (w *Wrapper) CloseChat(ctx context.Context, chatId int64) {
	if w.tdlibClient == nil {
		return
	}
	_, err := w.tdlibClient.CloseChat(ctx, &client.CloseChatRequest{ChatId: chatId})
	if err != nil {
		log.Printf("failed to close chat %d: %s", chatId, err)
	}
}

// ViewMessage marks a single message as viewed; the resulting read-inbox
// update comes back asynchronously.
func (w *Wrapper) ViewMessage(ctx context.Context, chatId int64, messageId int64) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.ViewMessagesRequest{ChatId: chatId, MessageIds: append(make([]int64, 0), messageId), ForceRead: false}
	_, err := w.tdlibClient.ViewMessages(ctx, req)
	if err != nil {
		log.Printf("failed to view message %d in chat %d: %s", messageId, chatId, err)
	}
}

func (w *Wrapper) GetChatHistory(ctx context.Context, chatId int64, fromMessageId int64, offset int32, limit int32, onlyLocal bool) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.GetChatHistoryRequest{ChatId: chatId, FromMessageId: fromMessageId, Offset: offset, Limit: limit, OnlyLocal: onlyLocal}
	_, err := w.tdlibClient.GetChatHistory(ctx, req)
	if err != nil {
		log.Printf("failed to load history of chat %d: %s", chatId, err)
	}
}

func (w *Wrapper) GetMessage(ctx context.Context, chatId int64, messageId int64) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.GetMessageRequest{ChatId: chatId, MessageId: messageId}
	_, err := w.tdlibClient.GetMessage(ctx, req)
	if err != nil {
		log.Printf("failed to get message %d/%d: %s", chatId, messageId, err)
	}
}

func (w *Wrapper) SendTextMessage(ctx context.Context, chatId int64, text string, replyToMessageId int64) {
	content := &client.InputMessageText{Text: &client.FormattedText{Text: text}}
	w.sendMessage(ctx, chatId, content, replyToMessageId)
}

func (w *Wrapper) SendPhotoMessage(ctx context.Context, chatId int64, filePath string, caption string, replyToMessageId int64) {
	content := &client.InputMessagePhoto{
		Photo:   &client.InputFileLocal{Path: filePath},
		Caption: &client.FormattedText{Text: caption},
	}
	w.sendMessage(ctx, chatId, content, replyToMessageId)
}

func (w *Wrapper) SendVideoMessage(ctx context.Context, chatId int64, filePath string, caption string, replyToMessageId int64) {
	content := &client.InputMessageVideo{
		Video:   &client.InputFileLocal{Path: filePath},
		Caption: &client.FormattedText{Text: caption},
	}
	w.sendMessage(ctx, chatId, content, replyToMessageId)
}

func (w *Wrapper) SendDocumentMessage(ctx context.Context, chatId int64, filePath string, caption string, replyToMessageId int64) {
	content := &client.InputMessageDocument{
		Document: &client.InputFileLocal{Path: filePath},
		Caption:  &client.FormattedText{Text: caption},
	}
	w.sendMessage(ctx, chatId, content, replyToMessageId)
}

func (w *Wrapper) sendMessage(ctx context.Context, chatId int64, content client.InputMessageContent, replyToMessageId int64) {
	if w.tdlibClient == nil {
		return
	}
	var req *client.SendMessageRequest
	if replyToMessageId == 0 {
		req = &client.SendMessageRequest{ChatId: chatId, InputMessageContent: content}
	} else {
		replyTo := client.InputMessageReplyToMessage{MessageId: replyToMessageId}
		req = &client.SendMessageRequest{ChatId: chatId, ReplyTo: &replyTo, InputMessageContent: content}
	}
	message, err := w.tdlibClient.SendMessage(ctx, req)
	if err != nil {
		log.Printf("failed to send message to chat %d: %s", chatId, err)
	} else {
		log.Printf("sent message to chat %d, virtual message id %d", chatId, message.Id)
	}
}

func (w *Wrapper) EditMessageText(ctx context.Context, chatId int64, messageId int64, text string) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.EditMessageTextRequest{
		ChatId:              chatId,
		MessageId:           messageId,
		InputMessageContent: &client.InputMessageText{Text: &client.FormattedText{Text: text}},
	}
	_, err := w.tdlibClient.EditMessageText(ctx, req)
	if err != nil {
		log.Printf("failed to edit message %d/%d: %s", chatId, messageId, err)
	}
}

func (w *Wrapper) DeleteMessages(ctx context.Context, chatId int64, messageIds []int64) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.DeleteMessagesRequest{ChatId: chatId, MessageIds: messageIds, Revoke: true}
	_, err := w.tdlibClient.DeleteMessages(ctx, req)
	if err != nil {
		log.Printf("failed to delete messages %s in chat %d: %s", helpers.ImplodeInt(messageIds), chatId, err)
	}
}

func (w *Wrapper) DownloadFile(ctx context.Context, fileId int32) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.DownloadFileRequest{FileId: fileId, Priority: 1, Synchronous: false}
	_, err := w.tdlibClient.DownloadFile(ctx, req)
	if err != nil {
		log.Printf("failed to download file %d: %s", fileId, err)
	}
}

func (w *Wrapper) SetChatNotificationSettings(ctx context.Context, chatId int64, settings *client.ChatNotificationSettings) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.SetChatNotificationSettingsRequest{ChatId: chatId, NotificationSettings: settings}
	_, err := w.tdlibClient.SetChatNotificationSettings(ctx, req)
	if err != nil {
		log.Printf("failed to set notification settings for chat %d: %s", chatId, err)
	}
}

func (w *Wrapper) SetOptionInteger(ctx context.Context, name string, value int64) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.SetOptionRequest{Name: name, Value: &client.OptionValueInteger{Value: client.JsonInt64(value)}}
	_, err := w.tdlibClient.SetOption(ctx, req)
	if err != nil {
		log.Printf("failed to set option %s: %s", name, err)
	}
}

func (w *Wrapper) SetOptionBoolean(ctx context.Context, name string, value bool) {
	if w.tdlibClient == nil {
		return
	}
	req := &client.SetOptionRequest{Name: name, Value: &client.OptionValueBoolean{Value: value}}
	_, err := w.tdlibClient.SetOption(ctx, req)
	if err != nil {
		log.Printf("failed to set option %s: %s", name, err)
	}
}
