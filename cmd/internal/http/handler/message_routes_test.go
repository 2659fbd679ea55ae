package handler_test

import (
	"livechat/cmd/internal/contract"
	"livechat/cmd/internal/domain/entity"
	"livechat/cmd/internal/http/handler"
	"livechat/cmd/internal/utils/apierror"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubMessageService struct {
	conversation []*contract.MessageResponse
	unread       *contract.UnreadCountResponse
	apierr       apierror.ErrorResponse

	gotOther string
	gotLimit int
}

func (s *stubMessageService) GetConversation(_ *entity.User, otherID string, limit int) ([]*contract.MessageResponse, apierror.ErrorResponse) {
	s.gotOther = otherID
	s.gotLimit = limit
	return s.conversation, s.apierr
}

func (s *stubMessageService) CountUnread(_ *entity.User) (*contract.UnreadCountResponse, apierror.ErrorResponse) {
	return s.unread, s.apierr
}

func newContext(t *testing.T, target string, user *entity.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set("user", user)
	}
	return c, rec
}

func TestGetConversation(t *testing.T) {
	svc := &stubMessageService{
		conversation: []*contract.MessageResponse{
			{ID: 1, Sender: "alice", Recipient: "bob", Content: "hi", CreatedAt: "2026-01-01T00:00:00Z"},
		},
	}
	route := handler.NewMessageDefault(svc)

	c, rec := newContext(t, "/api/messages/bob?limit=10", &entity.User{ID: "alice"})
	c.SetParamNames("userId")
	c.SetParamValues("bob")

	if err := route.GetConversation(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotOther != "bob" || svc.gotLimit != 10 {
		t.Errorf("expected service called with bob/10, got %s/%d", svc.gotOther, svc.gotLimit)
	}
	if !strings.Contains(rec.Body.String(), `"content":"hi"`) {
		t.Errorf("expected message content in response, got %s", rec.Body.String())
	}
}

func TestGetConversationRejectsBadLimit(t *testing.T) {
	route := handler.NewMessageDefault(&stubMessageService{})

	c, rec := newContext(t, "/api/messages/bob?limit=abc", &entity.User{ID: "alice"})
	c.SetParamNames("userId")
	c.SetParamValues("bob")

	if err := route.GetConversation(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetConversationWithoutUser(t *testing.T) {
	route := handler.NewMessageDefault(&stubMessageService{})

	c, rec := newContext(t, "/api/messages/bob", nil)
	c.SetParamNames("userId")
	c.SetParamValues("bob")

	if err := route.GetConversation(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGetUnreadCount(t *testing.T) {
	svc := &stubMessageService{unread: &contract.UnreadCountResponse{Count: 3}}
	route := handler.NewMessageDefault(svc)

	c, rec := newContext(t, "/api/messages/unread", &entity.User{ID: "alice"})

	if err := route.GetUnreadCount(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"count":3`) {
		t.Errorf("expected count in response, got %s", rec.Body.String())
	}
}
