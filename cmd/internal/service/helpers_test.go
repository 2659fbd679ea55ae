package service_test

import (
	"errors"
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/entity"
	"livechat/cmd/internal/utils"
	"livechat/cmd/internal/utils/validators"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		t.Fatalf("failed to register notblank validator: %v", err)
	}
	return v
}

func initAuth(t *testing.T) {
	t.Helper()
	if err := utils.InitAuth(testSecret); err != nil {
		t.Fatalf("InitAuth failed: %v", err)
	}
}

func makeToken(t *testing.T, sub, username string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      sub,
		"username": username,
		"exp":      exp.Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

// opLog records the order of observable side effects across fakes, so
// tests can assert things like persist-before-deliver.
type opLog struct {
	mu  sync.Mutex
	ops []string
}

func (l *opLog) add(op string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ops = append(l.ops, op)
}

func (l *opLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ops...)
}

type fakeConn struct {
	id  string
	log *opLog

	mu   sync.Mutex
	sent []*contract.OutgoingSocketMessage
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string {
	return c.id
}

func (c *fakeConn) Send(msg *contract.OutgoingSocketMessage) {
	if c.log != nil {
		c.log.add("deliver:" + c.id + ":" + string(msg.Type))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
}

func (c *fakeConn) events() []*contract.OutgoingSocketMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*contract.OutgoingSocketMessage(nil), c.sent...)
}

func (c *fakeConn) lastEvent(t *testing.T) *contract.OutgoingSocketMessage {
	t.Helper()
	evts := c.events()
	if len(evts) == 0 {
		t.Fatal("expected at least one event, got none")
	}
	return evts[len(evts)-1]
}

type broadcastRecord struct {
	msg    *contract.OutgoingSocketMessage
	except string
}

type fakeHub struct {
	mu        sync.Mutex
	broadcast []broadcastRecord
}

func (h *fakeHub) Broadcast(msg *contract.OutgoingSocketMessage, exceptConnID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcast = append(h.broadcast, broadcastRecord{msg: msg, except: exceptConnID})
}

func (h *fakeHub) records() []broadcastRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]broadcastRecord(nil), h.broadcast...)
}

type presenceWrite struct {
	userID string
	online bool
}

type fakeUserRepo struct {
	mu         sync.Mutex
	saved      []*entity.User
	updates    []presenceWrite
	allOffline int
	failWrites bool
}

func (r *fakeUserRepo) FindOnline() ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var online []*entity.User
	for _, u := range r.saved {
		if u.IsOnline {
			online = append(online, u)
		}
	}
	return online, nil
}

func (r *fakeUserRepo) SavePresence(user *entity.User) error {
	if r.failWrites {
		return errors.New("store unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, user)
	return nil
}

func (r *fakeUserRepo) UpdatePresence(id string, online bool, lastActive int64) error {
	if r.failWrites {
		return errors.New("store unavailable")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, presenceWrite{userID: id, online: online})
	return nil
}

func (r *fakeUserRepo) MarkAllOffline() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allOffline++
	return nil
}

type fakeMessageRepo struct {
	log *opLog

	mu       sync.Mutex
	messages map[int64]*entity.Message
	failSave bool
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[int64]*entity.Message)}
}

func (r *fakeMessageRepo) Save(msg *entity.Message) error {
	if r.failSave {
		return errors.New("store unavailable")
	}
	if r.log != nil {
		r.log.add("persist")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *msg
	r.messages[msg.ID] = &stored
	return nil
}

func (r *fakeMessageRepo) FindByID(id int64) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	copied := *msg
	return &copied, nil
}

func (r *fakeMessageRepo) MarkRead(id int64, readAt int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok || msg.IsRead {
		return nil
	}
	msg.IsRead = true
	msg.ReadAt = &readAt
	return nil
}

func (r *fakeMessageRepo) FindConversation(userA, userB string, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var msgs []*entity.Message
	for _, msg := range r.messages {
		if (msg.Sender == userA && msg.Recipient == userB) ||
			(msg.Sender == userB && msg.Recipient == userA) {
			copied := *msg
			msgs = append(msgs, &copied)
		}
	}
	return msgs, nil
}

func (r *fakeMessageRepo) CountUnread(userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, msg := range r.messages {
		if msg.Recipient == userID && !msg.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeMessageRepo) stored(id int64) *entity.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[id]
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}
