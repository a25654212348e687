package web

import (
	"net/http"

	"github.com/ygriega/fernschreiber/internal/config"
	"github.com/ygriega/fernschreiber/internal/events"
	"github.com/ygriega/fernschreiber/internal/tdlib"
)

func Run(cfg *config.Config, wrapper *tdlib.Wrapper, bus *events.Bus) error {

	controller := newWebController(wrapper)
	feed := newEventFeed(bus)

	mux := http.NewServeMux()

	mux.Handle("/{$}", http.HandlerFunc(controller.processStatus))
	mux.Handle("/status", http.HandlerFunc(controller.processStatus))
	mux.Handle("POST /auth", http.HandlerFunc(controller.processAuth))
	mux.Handle("/settings", http.HandlerFunc(controller.processSettings))
	mux.Handle("/l", http.HandlerFunc(controller.processChatList))
	mux.Handle("/c/{chat_id}", http.HandlerFunc(controller.processChatInfo))
	mux.Handle("/u/{user_id}", http.HandlerFunc(controller.processUserInfo))
	mux.Handle("/g/{group_id}", http.HandlerFunc(controller.processGroupInfo))
	mux.Handle("/o", http.HandlerFunc(controller.processOptions))
	mux.Handle("/events", http.HandlerFunc(feed.processEvents))

	server := &http.Server{
		Addr:    cfg.WebListen,
		Handler: logging(mux),
	}
	return server.ListenAndServe()
}
