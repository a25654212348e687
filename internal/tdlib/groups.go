package tdlib

import (
	"sync"

	"github.com/ygriega/fernschreiber/internal/helpers"
)

type ChatMemberStatus int32

const (
	ChatMemberStatusUnknown ChatMemberStatus = iota
	ChatMemberStatusMember
	ChatMemberStatusLeft
	ChatMemberStatusCreator
	ChatMemberStatusAdministrator
	ChatMemberStatusRestricted
	ChatMemberStatusBanned
)

var chatMemberStatuses = map[string]ChatMemberStatus{
	"chatMemberStatusMember":        ChatMemberStatusMember,
	"chatMemberStatusLeft":          ChatMemberStatusLeft,
	"chatMemberStatusCreator":       ChatMemberStatusCreator,
	"chatMemberStatusAdministrator": ChatMemberStatusAdministrator,
	"chatMemberStatusRestricted":    ChatMemberStatusRestricted,
	"chatMemberStatusBanned":        ChatMemberStatusBanned,
}

func ChatMemberStatusFromString(status string) ChatMemberStatus {
	return chatMemberStatuses[status]
}

// Group is an identity-stable record: once registered under an id, the same
// record is mutated in place on later updates, so observers holding the id
// always read the current info through the registry.
type Group struct {
	Id   int64
	Info map[string]any
}

// ChatMemberStatus derives the own membership status from the group's
// status.@type. Missing status or an unrecognized value yields Unknown.
func (g *Group) ChatMemberStatus() ChatMemberStatus {
	statusType := helpers.FieldStr(helpers.FieldMap(g.Info, "status"), "@type")
	if statusType == "" {
		return ChatMemberStatusUnknown
	}

	return ChatMemberStatusFromString(statusType)
}

// GroupRegistry caches basic and super group records in two namespaces with
// one unified lookup. Events carry group ids, not records; consumers resolve
// them here.
type GroupRegistry struct {
	m           sync.RWMutex
	basicGroups map[int64]*Group
	superGroups map[int64]*Group
}

func NewGroupRegistry() *GroupRegistry {
	return &GroupRegistry{
		basicGroups: make(map[int64]*Group),
		superGroups: make(map[int64]*Group),
	}
}

func (r *GroupRegistry) UpdateBasicGroup(groupId int64, info map[string]any) *Group {
	r.m.Lock()
	defer r.m.Unlock()

	return updateGroup(groupId, info, r.basicGroups)
}

func (r *GroupRegistry) UpdateSuperGroup(groupId int64, info map[string]any) *Group {
	r.m.Lock()
	defer r.m.Unlock()

	return updateGroup(groupId, info, r.superGroups)
}

// updateGroup allocates the record on first sight and then replaces its info
// wholesale. Unlike chats and users there is no per-key merge: the backend
// always sends the complete group object.
func updateGroup(groupId int64, info map[string]any, groups map[int64]*Group) *Group {
	group := groups[groupId]
	if group == nil {
		group = &Group{Id: groupId}
		groups[groupId] = group
	}
	group.Info = info

	return group
}

// GetGroup resolves an id in the super-group namespace first, then the basic
// one. Id 0 means "no group" and always resolves to absent.
func (r *GroupRegistry) GetGroup(groupId int64) *Group {
	if groupId == 0 {
		return nil
	}
	r.m.RLock()
	defer r.m.RUnlock()

	if group := r.superGroups[groupId]; group != nil {
		return group
	}

	return r.basicGroups[groupId]
}

func (r *GroupRegistry) GetBasicGroup(groupId int64) map[string]any {
	r.m.RLock()
	defer r.m.RUnlock()

	if group := r.basicGroups[groupId]; group != nil {
		return group.Info
	}

	return nil
}

func (r *GroupRegistry) GetSuperGroup(groupId int64) map[string]any {
	r.m.RLock()
	defer r.m.RUnlock()

	if group := r.superGroups[groupId]; group != nil {
		return group.Info
	}

	return nil
}
