package service_test

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/events"
	"livechat/cmd/internal/registry"
	"livechat/cmd/internal/service"
	"livechat/cmd/internal/utils/uid"
	"strings"
	"testing"
)

func newMessageFixture(t *testing.T) (*service.MessageService, *registry.Registry, *fakeMessageRepo) {
	t.Helper()
	uid.Init(1)
	reg := registry.New()
	repo := newFakeMessageRepo()
	return service.NewMessageService(reg, repo, newValidate(t)), reg, repo
}

func TestSendDeliversToOnlineRecipient(t *testing.T) {
	svc, reg, repo := newMessageFixture(t)

	log := &opLog{}
	repo.log = log
	sender := newFakeConn("conn-a")
	recipient := newFakeConn("conn-b")
	recipient.log = log
	reg.Register("bob", recipient, 1000)

	svc.Send(sender, &contract.SendMessagePayload{
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     "hi",
	})

	// Durability before delivery: the persist must precede the
	// new_message push to the recipient.
	ops := log.snapshot()
	if len(ops) < 2 || ops[0] != "persist" || !strings.HasPrefix(ops[1], "deliver:conn-b") {
		t.Fatalf("expected persist before delivery, got %v", ops)
	}

	evts := recipient.events()
	if len(evts) != 1 || evts[0].Type != contract.EventNewMessage {
		t.Fatalf("expected one new_message at recipient, got %+v", evts)
	}
	delivered := evts[0].Data.(*events.NewMessage)
	if delivered.Content != "hi" || delivered.Sender != "alice" || delivered.IsRead {
		t.Errorf("unexpected delivered message: %+v", delivered.MessageResponse)
	}
	if repo.stored(delivered.ID) == nil {
		t.Error("expected delivered message id to exist in the store")
	}

	ack := sender.lastEvent(t)
	if ack.Type != contract.EventMessageSent {
		t.Fatalf("expected message_sent ack, got %s", ack.Type)
	}
	if sent := ack.Data.(*events.MessageSent); !sent.Success || sent.MessageID != delivered.ID {
		t.Errorf("unexpected ack payload: %+v", sent)
	}
}

func TestSendToOfflineRecipientStillPersistsAndAcks(t *testing.T) {
	svc, _, repo := newMessageFixture(t)
	sender := newFakeConn("conn-a")

	svc.Send(sender, &contract.SendMessagePayload{
		SenderID:    "alice",
		RecipientID: "carol",
		Content:     "are you there?",
	})

	if repo.count() != 1 {
		t.Fatalf("expected one persisted message, got %d", repo.count())
	}

	evts := sender.events()
	if len(evts) != 1 || evts[0].Type != contract.EventMessageSent {
		t.Fatalf("expected exactly one message_sent ack, got %+v", evts)
	}
	if sent := evts[0].Data.(*events.MessageSent); !sent.Success {
		t.Error("expected success=true for offline recipient")
	}
}

func TestSendRejectsBlankContent(t *testing.T) {
	svc, _, repo := newMessageFixture(t)
	sender := newFakeConn("conn-a")

	svc.Send(sender, &contract.SendMessagePayload{
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     "   ",
	})

	if repo.count() != 0 {
		t.Error("expected no partial persistence on validation failure")
	}
	if evt := sender.lastEvent(t); evt.Type != contract.EventMessageError {
		t.Errorf("expected message_error, got %s", evt.Type)
	}
}

func TestSendRejectsMissingRecipient(t *testing.T) {
	svc, _, repo := newMessageFixture(t)
	sender := newFakeConn("conn-a")

	svc.Send(sender, &contract.SendMessagePayload{
		SenderID: "alice",
		Content:  "hi",
	})

	if repo.count() != 0 {
		t.Error("expected no persistence without a recipient")
	}
	if evt := sender.lastEvent(t); evt.Type != contract.EventMessageError {
		t.Errorf("expected message_error, got %s", evt.Type)
	}
}

func TestSendPersistenceFailure(t *testing.T) {
	svc, reg, repo := newMessageFixture(t)
	repo.failSave = true
	sender := newFakeConn("conn-a")
	recipient := newFakeConn("conn-b")
	reg.Register("bob", recipient, 1000)

	svc.Send(sender, &contract.SendMessagePayload{
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     "hi",
	})

	if len(recipient.events()) != 0 {
		t.Error("expected no delivery when persistence fails")
	}

	evts := sender.events()
	if len(evts) != 1 || evts[0].Type != contract.EventMessageError {
		t.Fatalf("expected only message_error at sender, got %+v", evts)
	}
}

func TestSendEchoesClientTempID(t *testing.T) {
	svc, _, _ := newMessageFixture(t)
	sender := newFakeConn("conn-a")

	svc.Send(sender, &contract.SendMessagePayload{
		SenderID:    "alice",
		RecipientID: "bob",
		Content:     "hi",
		MessageID:   "tmp-42",
	})

	ack := sender.lastEvent(t)
	if sent := ack.Data.(*events.MessageSent); sent.TempID != "tmp-42" {
		t.Errorf("expected temp id echoed back, got %q", sent.TempID)
	}
}
