package tdlib

import (
	"reflect"
	"sync"

	"github.com/ygriega/fernschreiber/internal/helpers"
)

// StateStore owns the normalized in-memory mappings for chats, users, options
// and unread counters. All mutations are last-write-wins per field group;
// correctness relies on the backend stream being authoritative in arrival
// order per entity. Mutations arrive from the single receiver goroutine, the
// RWMutex protects readers on other goroutines (web handlers). Records never
// leave the store live: accessors and mutators hand out snapshots, so readers
// cannot observe (or race with) later merges into the internal maps.
type StateStore struct {
	m                 sync.RWMutex
	chats             map[string]map[string]any
	users             map[string]map[string]any
	options           map[string]any
	ownUserId         string
	ownUser           map[string]any
	unreadMessageInfo map[string]any
	unreadChatInfo    map[string]any
}

func NewStateStore() *StateStore {
	return &StateStore{
		chats:   make(map[string]map[string]any),
		users:   make(map[string]map[string]any),
		options: make(map[string]any),
	}
}

// cloneRecord is a top-level copy. Merges replace whole values under
// top-level keys and never mutate nested maps in place, so one level is
// enough to detach a snapshot from future writes.
func cloneRecord(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	snapshot := make(map[string]any, len(record))
	for k, v := range record {
		snapshot[k] = v
	}

	return snapshot
}

// UpsertChat inserts the chat on first discovery, otherwise merges by
// replacing the top-level keys present in fields. Chats are never removed.
// Returns a snapshot of the record after the merge.
func (s *StateStore) UpsertChat(chatId string, fields map[string]any) map[string]any {
	if chatId == "" {
		return nil
	}
	s.m.Lock()
	defer s.m.Unlock()

	chat, ok := s.chats[chatId]
	if !ok {
		chat = make(map[string]any, len(fields))
		s.chats[chatId] = chat
	}
	for k, v := range fields {
		chat[k] = v
	}

	return cloneRecord(chat)
}

// UpsertUser merges by replacing top-level keys, so a status previously
// applied via UpdateUserStatus survives user updates that carry no status of
// their own. The own-user slot is refreshed when the id matches the resolved
// own id; updates received before the id became known are not mirrored
// retroactively.
func (s *StateStore) UpsertUser(userId string, fields map[string]any) map[string]any {
	if userId == "" {
		return nil
	}
	s.m.Lock()
	defer s.m.Unlock()

	user, ok := s.users[userId]
	if !ok {
		user = make(map[string]any, len(fields))
		s.users[userId] = user
	}
	for k, v := range fields {
		user[k] = v
	}
	if userId == s.ownUserId && s.ownUserId != "" {
		s.ownUser = user
	}

	return cloneRecord(user)
}

// UpdateUserStatus replaces only the status sub-field, leaving the rest of
// the user record untouched.
func (s *StateStore) UpdateUserStatus(userId string, status map[string]any) map[string]any {
	if userId == "" {
		return nil
	}
	s.m.Lock()
	defer s.m.Unlock()

	user, ok := s.users[userId]
	if !ok {
		user = make(map[string]any, 1)
		s.users[userId] = user
	}
	user["status"] = status
	if userId == s.ownUserId && s.ownUserId != "" {
		s.ownUser = user
	}

	return cloneRecord(user)
}

// RecordOption replaces the stored value and reports whether it changed.
// The well-known own-id option additionally resolves the own-user identity;
// the caller emits the "own user id found" signal once per value change.
func (s *StateStore) RecordOption(name string, value any) bool {
	s.m.Lock()
	defer s.m.Unlock()

	old, ok := s.options[name]
	s.options[name] = value
	if name == "my_id" {
		s.ownUserId = helpers.ScalarStr(value)
	}

	// DeepEqual instead of ==: option values are usually scalars but nothing
	// stops the backend from sending a composite, and == would panic on it
	return !ok || !reflect.DeepEqual(old, value)
}

// UpdateUnreadMessageCount applies the snapshot only for the main chat list;
// counters for other list types are ignored on purpose.
func (s *StateStore) UpdateUnreadMessageCount(info map[string]any) bool {
	if chatListType(info) != "chatListMain" {
		return false
	}
	s.m.Lock()
	s.unreadMessageInfo = info
	s.m.Unlock()

	return true
}

func (s *StateStore) UpdateUnreadChatCount(info map[string]any) bool {
	if chatListType(info) != "chatListMain" {
		return false
	}
	s.m.Lock()
	s.unreadChatInfo = info
	s.m.Unlock()

	return true
}

// chatListType reads the flattened chat_list_type field or the nested
// chat_list object, whichever the payload carries.
func chatListType(info map[string]any) string {
	if t := helpers.FieldStr(info, "chat_list_type"); t != "" {
		return t
	}

	return helpers.FieldStr(helpers.FieldMap(info, "chat_list"), "@type")
}

func (s *StateStore) GetChat(chatId string) map[string]any {
	s.m.RLock()
	defer s.m.RUnlock()

	return cloneRecord(s.chats[chatId])
}

func (s *StateStore) ChatIds() []string {
	s.m.RLock()
	defer s.m.RUnlock()

	ids := make([]string, 0, len(s.chats))
	for id := range s.chats {
		ids = append(ids, id)
	}

	return ids
}

func (s *StateStore) GetUser(userId string) map[string]any {
	s.m.RLock()
	defer s.m.RUnlock()

	return cloneRecord(s.users[userId])
}

func (s *StateStore) GetOwnUser() map[string]any {
	s.m.RLock()
	defer s.m.RUnlock()

	return cloneRecord(s.ownUser)
}

func (s *StateStore) GetOwnUserId() string {
	s.m.RLock()
	defer s.m.RUnlock()

	return s.ownUserId
}

func (s *StateStore) GetOption(name string) any {
	s.m.RLock()
	defer s.m.RUnlock()

	return s.options[name]
}

func (s *StateStore) GetUnreadMessageInfo() map[string]any {
	s.m.RLock()
	defer s.m.RUnlock()

	return cloneRecord(s.unreadMessageInfo)
}

func (s *StateStore) GetUnreadChatInfo() map[string]any {
	s.m.RLock()
	defer s.m.RUnlock()

	return cloneRecord(s.unreadChatInfo)
}
