package web

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/ygriega/fernschreiber/internal/tdlib"
)

type webController struct {
	wrapper *tdlib.Wrapper
}

func newWebController(wrapper *tdlib.Wrapper) *webController {
	return &webController{wrapper: wrapper}
}

type statusResponse struct {
	Version            string         `json:"version"`
	AuthorizationState string         `json:"authorization_state"`
	ConnectionState    string         `json:"connection_state"`
	OwnUserId          string         `json:"own_user_id"`
	OwnUser            map[string]any `json:"own_user,omitempty"`
	UnreadMessages     map[string]any `json:"unread_messages,omitempty"`
	UnreadChats        map[string]any `json:"unread_chats,omitempty"`
}

func (wc *webController) processStatus(w http.ResponseWriter, req *http.Request) {
	st := wc.wrapper.Store()
	res := statusResponse{
		Version:            wc.wrapper.GetVersion(),
		AuthorizationState: wc.wrapper.GetAuthorizationState().String(),
		ConnectionState:    wc.wrapper.GetConnectionState().String(),
		OwnUserId:          st.GetOwnUserId(),
		OwnUser:            st.GetOwnUser(),
		UnreadMessages:     st.GetUnreadMessageInfo(),
		UnreadChats:        st.GetUnreadChatInfo(),
	}
	jsonResponse(res, w)
}

func (wc *webController) processChatList(w http.ResponseWriter, req *http.Request) {
	st := wc.wrapper.Store()
	chats := make([]map[string]any, 0)
	for _, chatId := range st.ChatIds() {
		if chat := st.GetChat(chatId); chat != nil {
			chats = append(chats, chat)
		}
	}
	jsonResponse(chats, w)
}

func (wc *webController) processChatInfo(w http.ResponseWriter, req *http.Request) {
	chat := wc.wrapper.GetChat(req.PathValue("chat_id"))
	if chat == nil {
		errorResponse("unknown chat", http.StatusNotFound, w)

		return
	}
	jsonResponse(chat, w)
}

func (wc *webController) processUserInfo(w http.ResponseWriter, req *http.Request) {
	user := wc.wrapper.GetUser(req.PathValue("user_id"))
	if user == nil {
		errorResponse("unknown user", http.StatusNotFound, w)

		return
	}
	jsonResponse(user, w)
}

func (wc *webController) processGroupInfo(w http.ResponseWriter, req *http.Request) {
	groupId, _ := strconv.ParseInt(req.PathValue("group_id"), 10, 64)
	group := wc.wrapper.GetGroup(groupId)
	if group == nil {
		errorResponse("unknown group", http.StatusNotFound, w)

		return
	}
	jsonResponse(map[string]any{
		"id":                 group.Id,
		"chat_member_status": group.ChatMemberStatus(),
		"info":               group.Info,
	}, w)
}

func (wc *webController) processOptions(w http.ResponseWriter, req *http.Request) {
	name := req.FormValue("name")
	if name == "" {
		errorResponse("name parameter required", http.StatusBadRequest, w)

		return
	}
	value := wc.wrapper.Store().GetOption(name)
	if value == nil {
		errorResponse("unknown option", http.StatusNotFound, w)

		return
	}
	jsonResponse(map[string]any{"name": name, "value": value}, w)
}

// processAuth feeds an interactive login step into the running authorizer.
// The resulting state change arrives back over the update stream.
func (wc *webController) processAuth(w http.ResponseWriter, req *http.Request) {
	code := req.FormValue("code")
	password := req.FormValue("password")
	switch {
	case code != "":
		wc.wrapper.SetAuthenticationCode(code)
	case password != "":
		wc.wrapper.SetAuthenticationPassword(password)
	default:
		errorResponse("code or password parameter required", http.StatusBadRequest, w)

		return
	}
	jsonResponse(map[string]string{
		"authorization_state": wc.wrapper.GetAuthorizationState().String(),
	}, w)
}

func (wc *webController) processSettings(w http.ResponseWriter, req *http.Request) {
	if v := req.FormValue("send_by_enter"); v != "" {
		sendByEnter, err := strconv.ParseBool(v)
		if err != nil {
			errorResponse("send_by_enter must be a boolean", http.StatusBadRequest, w)

			return
		}
		wc.wrapper.SetSendByEnter(req.Context(), sendByEnter)
	}
	jsonResponse(map[string]bool{
		"send_by_enter": wc.wrapper.GetSendByEnter(req.Context()),
	}, w)
}

func jsonResponse(data any, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %s", err)
	}
}

func errorResponse(message string, code int, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
