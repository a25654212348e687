package notifications

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/ygriega/fernschreiber/internal/events"
	"github.com/ygriega/fernschreiber/internal/helpers"
)

// Presenter is the OS-notification sink. It may be slow (session bus, remote
// display), so it is always invoked outside the manager's lock.
type Presenter interface {
	Present(notifications []Notification)
}

// Notification is one consolidated OS-visible notification, covering a whole
// notification group of a single chat.
type Notification struct {
	GroupId    int64    `json:"group_id"`
	ChatId     string   `json:"chat_id"`
	ChatTitle  string   `json:"chat_title"`
	TotalCount int64    `json:"total_count"`
	Summaries  []string `json:"summaries"`
}

// groupEntry is the mutable per-group cache record. An entry whose chat is
// not in the chat cache yet is stale: it stays tracked but is excluded from
// the presented set until the chat is discovered.
type groupEntry struct {
	id            int64
	groupType     string
	chatId        string
	totalCount    int64
	notifications map[int64]map[string]any
}

// Manager consumes chat-discovery and notification updates and produces the
// consolidated notification set. The chat cache and group cache are mutated
// from the update-delivery goroutine and read by UI-triggered recomputes, so
// every access is guarded by one mutex.
type Manager struct {
	log       *slog.Logger
	presenter Presenter

	mu     sync.Mutex
	chats  map[string]map[string]any
	groups map[int64]*groupEntry
}

func NewManager(log *slog.Logger, presenter Presenter) *Manager {
	return &Manager{
		log:       log,
		presenter: presenter,
		chats:     make(map[string]map[string]any),
		groups:    make(map[int64]*groupEntry),
	}
}

// Subscribe attaches the manager to the wrapper's event bus.
func (m *Manager) Subscribe(bus *events.Bus) {
	bus.Subscribe(m.handleEvent)
}

func (m *Manager) handleEvent(e events.Event) {
	switch e.Kind {
	case events.NewChatDiscovered:
		m.HandleChatDiscovered(e.ChatId, e.Data)
	case events.ActiveNotificationsUpdated:
		m.HandleUpdateActiveNotifications(e.List)
	case events.NotificationGroupUpdated:
		m.HandleUpdateNotificationGroup(e.Data)
	case events.NotificationUpdated:
		m.HandleUpdateNotification(e.Data)
	}
}

// HandleChatDiscovered records the chat metadata needed to render titles.
// Groups that referenced this chat while it was unknown become presentable
// with this call.
func (m *Manager) HandleChatDiscovered(chatId string, chatInfo map[string]any) {
	if chatId == "" {
		return
	}
	m.mu.Lock()
	m.chats[chatId] = chatInfo
	ready := m.compile()
	m.mu.Unlock()

	m.presenter.Present(ready)
}

// HandleUpdateActiveNotifications replaces the tracked group set wholesale.
func (m *Manager) HandleUpdateActiveNotifications(groups []any) {
	m.mu.Lock()
	m.groups = make(map[int64]*groupEntry, len(groups))
	for _, g := range groups {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		entry := m.ensureGroupLocked(helpers.FieldInt64(group, "id"))
		if entry == nil {
			continue
		}
		entry.groupType = helpers.FieldStr(helpers.FieldMap(group, "type"), "@type")
		entry.chatId = helpers.FieldIdStr(group, "chat_id")
		entry.totalCount = helpers.FieldInt64(group, "total_count")
		for _, n := range helpers.FieldList(group, "notifications") {
			if notification, ok := n.(map[string]any); ok {
				if id := helpers.FieldInt64(notification, "id"); id != 0 {
					entry.notifications[id] = notification
				}
			}
		}
	}
	ready := m.compile()
	m.mu.Unlock()

	m.presenter.Present(ready)
}

// HandleUpdateNotificationGroup merges one group update: type, chat id and
// total count replace, added notifications are inserted, removed ids deleted.
func (m *Manager) HandleUpdateNotificationGroup(update map[string]any) {
	groupId := helpers.FieldInt64(update, "notification_group_id")
	if groupId == 0 {
		return
	}
	m.mu.Lock()
	entry := m.ensureGroupLocked(groupId)
	if typ := helpers.FieldStr(helpers.FieldMap(update, "type"), "@type"); typ != "" {
		entry.groupType = typ
	}
	if chatId := helpers.FieldIdStr(update, "chat_id"); chatId != "" {
		entry.chatId = chatId
	}
	entry.totalCount = helpers.FieldInt64(update, "total_count")
	for _, n := range helpers.FieldList(update, "added_notifications") {
		if notification, ok := n.(map[string]any); ok {
			if id := helpers.FieldInt64(notification, "id"); id != 0 {
				entry.notifications[id] = notification
			}
		}
	}
	for _, r := range helpers.FieldList(update, "removed_notification_ids") {
		if id := helpers.ScalarInt64(r); id != 0 {
			delete(entry.notifications, id)
		}
	}
	if _, known := m.chats[entry.chatId]; !known {
		m.log.Debug("notification group references undiscovered chat", "group_id", groupId, "chat_id", entry.chatId)
	}
	ready := m.compile()
	m.mu.Unlock()

	m.presenter.Present(ready)
}

// HandleUpdateNotification merges a single changed notification into its
// owning group. Unknown groups are ignored, a later group update will carry
// the notification again.
func (m *Manager) HandleUpdateNotification(update map[string]any) {
	groupId := helpers.FieldInt64(update, "notification_group_id")
	notification := helpers.FieldMap(update, "notification")
	notificationId := helpers.FieldInt64(notification, "id")
	if groupId == 0 || notificationId == 0 {
		return
	}
	m.mu.Lock()
	entry := m.groups[groupId]
	if entry != nil {
		entry.notifications[notificationId] = notification
	}
	ready := m.compile()
	m.mu.Unlock()

	m.presenter.Present(ready)
}

// SendNotifications recomputes and re-dispatches the current set without
// applying any update, e.g. after the UI cleared its state.
func (m *Manager) SendNotifications() {
	m.mu.Lock()
	ready := m.compile()
	m.mu.Unlock()

	m.presenter.Present(ready)
}

func (m *Manager) ensureGroupLocked(groupId int64) *groupEntry {
	if groupId == 0 {
		return nil
	}
	entry := m.groups[groupId]
	if entry == nil {
		entry = &groupEntry{id: groupId, notifications: make(map[int64]map[string]any)}
		m.groups[groupId] = entry
	}

	return entry
}

// compile is the pure projection from the caches to the presentable set. It
// never mutates the caches, so repeated calls with unchanged input yield the
// same output. Stale groups and emptied groups are skipped. Callers hold the
// lock.
func (m *Manager) compile() []Notification {
	groupIds := make([]int64, 0, len(m.groups))
	for id := range m.groups {
		groupIds = append(groupIds, id)
	}
	sort.Slice(groupIds, func(i, j int) bool { return groupIds[i] < groupIds[j] })

	ready := make([]Notification, 0, len(groupIds))
	for _, groupId := range groupIds {
		entry := m.groups[groupId]
		if len(entry.notifications) == 0 {
			continue
		}
		chat, known := m.chats[entry.chatId]
		if !known {
			continue
		}

		notificationIds := make([]int64, 0, len(entry.notifications))
		for id := range entry.notifications {
			notificationIds = append(notificationIds, id)
		}
		sort.Slice(notificationIds, func(i, j int) bool { return notificationIds[i] < notificationIds[j] })

		summaries := make([]string, 0, len(notificationIds))
		for _, id := range notificationIds {
			summaries = append(summaries, summarize(entry.notifications[id]))
		}

		ready = append(ready, Notification{
			GroupId:    entry.id,
			ChatId:     entry.chatId,
			ChatTitle:  helpers.FieldStr(chat, "title"),
			TotalCount: entry.totalCount,
			Summaries:  summaries,
		})
	}

	return ready
}

// summarize renders one notification into a single line. Only new-message
// notifications with plain text carry a readable body, everything else is
// shown by kind.
func summarize(notification map[string]any) string {
	typ := helpers.FieldMap(notification, "type")
	switch helpers.FieldStr(typ, "@type") {
	case "notificationTypeNewMessage":
		message := helpers.FieldMap(typ, "message")
		content := helpers.FieldMap(message, "content")
		if helpers.FieldStr(content, "@type") == "messageText" {
			if text := helpers.FieldStr(helpers.FieldMap(content, "text"), "text"); text != "" {
				return text
			}
		}
		return "New message"
	case "notificationTypeNewSecretChat":
		return "New secret chat"
	case "notificationTypeNewCall":
		return "Incoming call"
	case "notificationTypeNewPushMessage":
		return "New message"
	}

	return fmt.Sprintf("Notification %d", helpers.FieldInt64(notification, "id"))
}
