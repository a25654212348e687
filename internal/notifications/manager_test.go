package notifications

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ygriega/fernschreiber/internal/events"
)

type capturePresenter struct {
	calls [][]Notification
}

func (p *capturePresenter) Present(notifications []Notification) {
	p.calls = append(p.calls, notifications)
}

func (p *capturePresenter) last() []Notification {
	if len(p.calls) == 0 {
		return nil
	}

	return p.calls[len(p.calls)-1]
}

func newTestManager() (*Manager, *capturePresenter) {
	presenter := &capturePresenter{}

	return NewManager(slog.New(slog.DiscardHandler), presenter), presenter
}

func chatInfo(title string) map[string]any {
	return map[string]any{"id": int64(100), "title": title}
}

func textNotification(id int64, text string) map[string]any {
	return map[string]any{
		"id": id,
		"type": map[string]any{
			"@type": "notificationTypeNewMessage",
			"message": map[string]any{
				"content": map[string]any{
					"@type": "messageText",
					"text":  map[string]any{"text": text},
				},
			},
		},
	}
}

func groupUpdate(groupId int64, chatId string, total int64, added ...map[string]any) map[string]any {
	notifications := make([]any, 0, len(added))
	for _, n := range added {
		notifications = append(notifications, n)
	}

	return map[string]any{
		"notification_group_id": groupId,
		"type":                  map[string]any{"@type": "notificationGroupTypeMessages"},
		"chat_id":               chatId,
		"total_count":           total,
		"added_notifications":   notifications,
	}
}

func TestStaleGroupDeferredUntilChatDiscovered(t *testing.T) {
	tests := []struct {
		name  string
		apply func(m *Manager)
	}{
		{
			name: "chat before group",
			apply: func(m *Manager) {
				m.HandleChatDiscovered("100", chatInfo("General"))
				m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 1, textNotification(10, "hello")))
			},
		},
		{
			name: "group before chat",
			apply: func(m *Manager) {
				m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 1, textNotification(10, "hello")))
				m.HandleChatDiscovered("100", chatInfo("General"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, presenter := newTestManager()
			tt.apply(m)

			result := presenter.last()
			require.Len(t, result, 1)
			assert.Equal(t, int64(1), result[0].GroupId)
			assert.Equal(t, "100", result[0].ChatId)
			assert.Equal(t, "General", result[0].ChatTitle)
			assert.Equal(t, []string{"hello"}, result[0].Summaries)
		})
	}
}

func TestStaleGroupNotPresented(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 1, textNotification(10, "hello")))

	require.Len(t, presenter.calls, 1)
	assert.Empty(t, presenter.last())
}

func TestRemovedNotificationIdsDropFromGroup(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleChatDiscovered("100", chatInfo("General"))
	m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 2, textNotification(10, "first"), textNotification(11, "second")))

	update := groupUpdate(1, "100", 1)
	update["removed_notification_ids"] = []any{int64(10)}
	m.HandleUpdateNotificationGroup(update)

	result := presenter.last()
	require.Len(t, result, 1)
	assert.Equal(t, []string{"second"}, result[0].Summaries)
	assert.Equal(t, int64(1), result[0].TotalCount)
}

func TestGroupEmptiedByRemovalDisappears(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleChatDiscovered("100", chatInfo("General"))
	m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 1, textNotification(10, "only")))

	update := groupUpdate(1, "100", 0)
	update["removed_notification_ids"] = []any{int64(10)}
	m.HandleUpdateNotificationGroup(update)

	assert.Empty(t, presenter.last())
}

func TestActiveNotificationsReplaceTrackedGroups(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleChatDiscovered("100", chatInfo("General"))
	m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 1, textNotification(10, "old")))

	m.HandleUpdateActiveNotifications([]any{
		map[string]any{
			"id":            int64(2),
			"type":          map[string]any{"@type": "notificationGroupTypeMessages"},
			"chat_id":       "100",
			"total_count":   int64(1),
			"notifications": []any{textNotification(20, "fresh")},
		},
	})

	result := presenter.last()
	require.Len(t, result, 1)
	assert.Equal(t, int64(2), result[0].GroupId)
	assert.Equal(t, []string{"fresh"}, result[0].Summaries)
}

func TestSingleNotificationMergedIntoGroup(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleChatDiscovered("100", chatInfo("General"))
	m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 1, textNotification(10, "before")))

	m.HandleUpdateNotification(map[string]any{
		"notification_group_id": int64(1),
		"notification":          textNotification(10, "after"),
	})

	result := presenter.last()
	require.Len(t, result, 1)
	assert.Equal(t, []string{"after"}, result[0].Summaries)
}

func TestNotificationForUnknownGroupIgnored(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleUpdateNotification(map[string]any{
		"notification_group_id": int64(9),
		"notification":          textNotification(10, "orphan"),
	})

	assert.Empty(t, presenter.last())
}

func TestProjectionIsRepeatable(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleChatDiscovered("100", chatInfo("General"))
	m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 2, textNotification(11, "b"), textNotification(10, "a")))

	first := presenter.last()
	m.SendNotifications()
	second := presenter.last()

	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, []string{"a", "b"}, first[0].Summaries)
}

func TestSummariesForNonTextContent(t *testing.T) {
	m, presenter := newTestManager()

	m.HandleChatDiscovered("100", chatInfo("General"))
	m.HandleUpdateNotificationGroup(groupUpdate(1, "100", 1, map[string]any{
		"id": int64(10),
		"type": map[string]any{
			"@type": "notificationTypeNewMessage",
			"message": map[string]any{
				"content": map[string]any{"@type": "messagePhoto"},
			},
		},
	}))

	result := presenter.last()
	require.Len(t, result, 1)
	assert.Equal(t, []string{"New message"}, result[0].Summaries)
}

func TestBusSubscription(t *testing.T) {
	m, presenter := newTestManager()
	bus := events.NewBus()
	m.Subscribe(bus)

	bus.Publish(events.Event{Kind: events.NewChatDiscovered, ChatId: "100", Data: chatInfo("General")})
	bus.Publish(events.Event{
		Kind: events.NotificationGroupUpdated,
		Data: groupUpdate(1, "100", 1, textNotification(10, "via bus")),
	})

	result := presenter.last()
	require.Len(t, result, 1)
	assert.Equal(t, []string{"via bus"}, result[0].Summaries)
}
