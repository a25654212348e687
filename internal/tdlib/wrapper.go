package tdlib

import (
	"context"
	"encoding/json"
	"log"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygriega/fernschreiber/internal/config"
	"github.com/ygriega/fernschreiber/internal/events"
	"github.com/zelenin/go-tdlib/client"
)

const updateQueueSize = 1024

// closeDrainTimeout bounds how long Close waits for the receiver to observe
// the stop flag and finish applying queued updates.
const closeDrainTimeout = 3 * time.Second

// SettingsStorage is the persisted-preferences collaborator. The wrapper only
// reads and writes simple scalars through it.
type SettingsStorage interface {
	GetBool(ctx context.Context, key string, def bool) bool
	SetBool(ctx context.Context, key string, value bool) error
}

// Wrapper sits between the TDLib client and everything else: it receives the
// update stream on a dedicated goroutine, folds each update into the state
// store and group registry, and re-emits one bus event per applied update.
type Wrapper struct {
	cfg      *config.Config
	bus      *events.Bus
	settings SettingsStorage
	store    *StateStore
	groups   *GroupRegistry

	mu                 sync.RWMutex
	version            string
	authorizationState AuthorizationState
	connectionState    ConnectionState

	tdlibClient *client.Client
	authParams  chan string

	updates chan *Envelope
	active  atomic.Bool
	done    chan struct{}
}

func NewWrapper(cfg *config.Config, bus *events.Bus, settings SettingsStorage) *Wrapper {
	return &Wrapper{
		cfg:        cfg,
		bus:        bus,
		settings:   settings,
		store:      NewStateStore(),
		groups:     NewGroupRegistry(),
		authParams: make(chan string, 1),
		updates:    make(chan *Envelope, updateQueueSize),
		done:       make(chan struct{}),
	}
}

// Start creates the TDLib client, drives authorization via the channel
// authorizer and launches the receiver. Returns the authorized user.
func (w *Wrapper) Start(ctx context.Context) (*client.User, error) {
	w.Run()

	tdlibParameters := createTdlibParameters(w.cfg)
	authorizer := ClientAuthorizer(tdlibParameters)
	go ChanInteractor(authorizer, w.cfg.Phone, w.authParams)

	_, _ = client.SetLogVerbosityLevel(&client.SetLogVerbosityLevelRequest{
		NewVerbosityLevel: 1,
	})

	tdlibClient, err := client.NewClient(authorizer, client.WithResultHandler(client.NewCallbackResultHandler(w.UpdatesCallback)))
	if err != nil {
		return nil, err
	}
	w.tdlibClient = tdlibClient

	optionValue, err := tdlibClient.GetOption(&client.GetOptionRequest{
		Name: "version",
	})
	if err != nil {
		log.Printf("failed to read TDLib version: %s", err)
	} else {
		log.Printf("TDLib version: %s", optionValue.(*client.OptionValueString).Value)
	}

	// notifications arrive grouped only after this option is set
	w.SetOptionInteger(ctx, "notification_group_count_max", 5)

	me, err := tdlibClient.GetMe(ctx)
	if err != nil {
		return nil, err
	}

	return me, nil
}

// Run starts the receiver goroutine without a backend client. Updates pushed
// through Enqueue are classified in arrival order.
func (w *Wrapper) Run() {
	w.active.Store(true)
	go w.receiveLoop()
}

// receiveLoop applies queued updates one by one. After the stop flag drops it
// keeps draining whatever is already queued so no update is half-applied or
// lost in flight, then exits.
func (w *Wrapper) receiveLoop() {
	defer close(w.done)
	for {
		select {
		case env := <-w.updates:
			w.classify(env)
		default:
			if !w.active.Load() {
				return
			}
			select {
			case env := <-w.updates:
				w.classify(env)
			case <-time.After(50 * time.Millisecond):
			}
		}
	}
}

// Close stops the receiver, waits (bounded) for it to drain, then releases
// the backend client. Outbound requests after Close are not delivered.
func (w *Wrapper) Close(ctx context.Context) {
	w.active.Store(false)
	select {
	case <-w.done:
	case <-time.After(closeDrainTimeout):
		log.Printf("receiver did not drain within %s, closing anyway", closeDrainTimeout)
	}
	if w.tdlibClient != nil {
		_, _ = w.tdlibClient.Close(context.Background())
	}
}

// UpdatesCallback adapts the typed client stream into generic envelopes. It
// runs on the client's receive goroutine and must not block on slow work, so
// it only marshals and enqueues.
func (w *Wrapper) UpdatesCallback(ctx context.Context, update client.Type) {
	raw, err := json.Marshal(update)
	if err != nil {
		log.Printf("failed to marshal update %s: %s", update.GetConstructor(), err)
		return
	}
	env, err := ParseEnvelope(raw)
	if err != nil {
		// some result types do not round-trip their @type, the constructor
		// name is the same discriminator
		var data map[string]any
		if json.Unmarshal(raw, &data) != nil {
			log.Printf("dropping undecodable update %s", update.GetConstructor())
			return
		}
		env = &Envelope{Type: update.GetConstructor(), Data: data}
	}
	w.Enqueue(env)
}

// EnqueueRaw feeds one raw JSON event into the receiver queue.
func (w *Wrapper) EnqueueRaw(raw []byte) {
	env, err := ParseEnvelope(raw)
	if err != nil {
		log.Printf("dropping undecodable update: %s", err)
		return
	}
	w.Enqueue(env)
}

func (w *Wrapper) Enqueue(env *Envelope) {
	if !w.active.Load() {
		return
	}
	select {
	case w.updates <- env:
	default:
		log.Printf("update queue full, dropping %s", env.Type)
	}
}

func (w *Wrapper) GetVersion() string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.version
}

func (w *Wrapper) GetAuthorizationState() AuthorizationState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.authorizationState
}

func (w *Wrapper) GetConnectionState() ConnectionState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.connectionState
}

func (w *Wrapper) Store() *StateStore {
	return w.store
}

func (w *Wrapper) Groups() *GroupRegistry {
	return w.groups
}

func (w *Wrapper) GetChat(chatId string) map[string]any {
	return w.store.GetChat(chatId)
}

func (w *Wrapper) GetUser(userId string) map[string]any {
	return w.store.GetUser(userId)
}

func (w *Wrapper) GetOwnUser() map[string]any {
	return w.store.GetOwnUser()
}

func (w *Wrapper) GetUnreadMessageInfo() map[string]any {
	return w.store.GetUnreadMessageInfo()
}

func (w *Wrapper) GetUnreadChatInfo() map[string]any {
	return w.store.GetUnreadChatInfo()
}

func (w *Wrapper) GetGroup(groupId int64) *Group {
	return w.groups.GetGroup(groupId)
}

// SetAuthenticationCode feeds the login code into the running authorizer.
func (w *Wrapper) SetAuthenticationCode(code string) {
	select {
	case w.authParams <- code:
	default:
		log.Printf("authorizer not waiting for a code, ignoring")
	}
}

// SetAuthenticationPassword feeds the 2FA password into the running authorizer.
func (w *Wrapper) SetAuthenticationPassword(password string) {
	select {
	case w.authParams <- password:
	default:
		log.Printf("authorizer not waiting for a password, ignoring")
	}
}

func (w *Wrapper) GetSendByEnter(ctx context.Context) bool {
	if w.settings == nil {
		return false
	}

	return w.settings.GetBool(ctx, "sendByEnter", false)
}

func (w *Wrapper) SetSendByEnter(ctx context.Context, sendByEnter bool) {
	if w.settings == nil {
		return
	}
	if err := w.settings.SetBool(ctx, "sendByEnter", sendByEnter); err != nil {
		log.Printf("failed to save sendByEnter: %s", err)
	}
}

func createTdlibParameters(cfg *config.Config) *client.SetTdlibParametersRequest {
	return &client.SetTdlibParametersRequest{
		UseTestDc:           false,
		DatabaseDirectory:   filepath.Join(cfg.TDataDir, "database"),
		FilesDirectory:      filepath.Join(cfg.TDataDir, "files"),
		UseFileDatabase:     true,
		UseChatInfoDatabase: true,
		UseMessageDatabase:  true,
		UseSecretChats:      false,
		ApiId:               cfg.ApiId,
		ApiHash:             cfg.ApiHash,
		SystemLanguageCode:  "en",
		DeviceModel:         "Linux",
		SystemVersion:       "1.0.0",
		ApplicationVersion:  "0.2",
	}
}
