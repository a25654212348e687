package tdlib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupRecordIsIdentityStable(t *testing.T) {
	registry := NewGroupRegistry()

	first := registry.UpdateBasicGroup(10, map[string]any{"member_count": int64(3)})
	second := registry.UpdateBasicGroup(10, map[string]any{"member_count": int64(4)})

	assert.Same(t, first, second)
	assert.Equal(t, int64(4), first.Info["member_count"].(int64))
}

func TestGroupInfoReplacedWholesale(t *testing.T) {
	registry := NewGroupRegistry()

	registry.UpdateSuperGroup(20, map[string]any{"member_count": int64(100), "is_channel": true})
	group := registry.UpdateSuperGroup(20, map[string]any{"member_count": int64(101)})

	assert.Equal(t, int64(101), group.Info["member_count"])
	_, hasChannelFlag := group.Info["is_channel"]
	assert.False(t, hasChannelFlag)
}

func TestGetGroupResolution(t *testing.T) {
	registry := NewGroupRegistry()
	registry.UpdateBasicGroup(10, map[string]any{"member_count": int64(3)})
	registry.UpdateSuperGroup(20, map[string]any{"member_count": int64(500)})

	tests := []struct {
		name     string
		groupId  int64
		expected int64
	}{
		{name: "basic group", groupId: 10, expected: 3},
		{name: "super group", groupId: 20, expected: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := registry.GetGroup(tt.groupId)
			require.NotNil(t, group)
			assert.Equal(t, tt.groupId, group.Id)
			assert.Equal(t, tt.expected, group.Info["member_count"])
		})
	}

	assert.Nil(t, registry.GetGroup(0))
	assert.Nil(t, registry.GetGroup(30))
}

func TestGetGroupPrefersSuperGroupNamespace(t *testing.T) {
	registry := NewGroupRegistry()
	registry.UpdateBasicGroup(10, map[string]any{"kind": "basic"})
	registry.UpdateSuperGroup(10, map[string]any{"kind": "super"})

	group := registry.GetGroup(10)
	require.NotNil(t, group)
	assert.Equal(t, "super", group.Info["kind"])

	assert.Equal(t, "basic", registry.GetBasicGroup(10)["kind"])
	assert.Equal(t, "super", registry.GetSuperGroup(10)["kind"])
}

func TestChatMemberStatusFromString(t *testing.T) {
	tests := []struct {
		status   string
		expected ChatMemberStatus
	}{
		{status: "chatMemberStatusMember", expected: ChatMemberStatusMember},
		{status: "chatMemberStatusLeft", expected: ChatMemberStatusLeft},
		{status: "chatMemberStatusCreator", expected: ChatMemberStatusCreator},
		{status: "chatMemberStatusAdministrator", expected: ChatMemberStatusAdministrator},
		{status: "chatMemberStatusRestricted", expected: ChatMemberStatusRestricted},
		{status: "chatMemberStatusBanned", expected: ChatMemberStatusBanned},
		{status: "chatMemberStatusFrobnicated", expected: ChatMemberStatusUnknown},
		{status: "", expected: ChatMemberStatusUnknown},
	}

	for _, tt := range tests {
		t.Run("status "+tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChatMemberStatusFromString(tt.status))
		})
	}
}

func TestGroupChatMemberStatus(t *testing.T) {
	registry := NewGroupRegistry()

	group := registry.UpdateBasicGroup(10, map[string]any{
		"status": map[string]any{"@type": "chatMemberStatusAdministrator"},
	})
	assert.Equal(t, ChatMemberStatusAdministrator, group.ChatMemberStatus())

	group = registry.UpdateBasicGroup(11, map[string]any{"member_count": int64(2)})
	assert.Equal(t, ChatMemberStatusUnknown, group.ChatMemberStatus())
}
