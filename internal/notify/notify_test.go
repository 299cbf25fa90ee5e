package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingSender) SendEmail(_ context.Context, to, subject, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, "email:"+to+":"+subject)
	return r.err
}

func (r *recordingSender) SendWhatsApp(_ context.Context, to, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, "whatsapp:"+to)
	return r.err
}

func notice() Notice {
	return Notice{
		TicketNumber:   "TKT-1A2B3C4D",
		Title:          "Annual service",
		GeneratorName:  "Main hall",
		OwnerEmail:     "owner@example.com",
		WhatsAppNumber: "+94770000000",
		Message:        "Technician arrives at 10:00",
	}
}

func TestDispatcher_TicketCompletedFansOut(t *testing.T) {
	rec := &recordingSender{}
	d := NewDispatcher(rec, rec, time.Second, zap.NewNop())

	d.TicketCompleted(context.Background(), notice())
	d.Wait()

	assert.ElementsMatch(t, []string{
		"email:owner@example.com:Ticket TKT-1A2B3C4D completed",
		"whatsapp:+94770000000",
	}, rec.sent)
}

func TestDispatcher_CustomHonoursChannels(t *testing.T) {
	rec := &recordingSender{}
	d := NewDispatcher(rec, rec, time.Second, zap.NewNop())

	d.Custom(context.Background(), notice(), []Channel{ChannelWhatsApp})
	d.Wait()

	assert.Equal(t, []string{"whatsapp:+94770000000"}, rec.sent)
}

func TestDispatcher_SkipsDisabledAndMissingContacts(t *testing.T) {
	rec := &recordingSender{}
	d := NewDispatcher(rec, nil, time.Second, zap.NewNop())

	n := notice()
	n.OwnerEmail = ""
	d.TicketCompleted(context.Background(), n)
	d.Wait()

	assert.Empty(t, rec.sent)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	rec := &recordingSender{err: errors.New("smtp down")}
	d := NewDispatcher(rec, rec, time.Second, zap.NewNop())

	require.NotPanics(t, func() {
		d.TicketCompleted(context.Background(), notice())
		d.Wait()
	})
	assert.Len(t, rec.sent, 2)
}

func TestBodies(t *testing.T) {
	n := notice()
	assert.Contains(t, CompletionBody(n), "TKT-1A2B3C4D")
	assert.Contains(t, CompletionBody(n), "Main hall")
	assert.True(t, strings.HasSuffix(CustomBody(n), n.Message))
}

func TestBuildMessage(t *testing.T) {
	date := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	msg := string(BuildMessage("ems@example.com", "owner@example.com", "Hi", "line1\nline2", date))

	assert.Contains(t, msg, "To: owner@example.com\r\n")
	assert.Contains(t, msg, "Subject: Hi\r\n")
	assert.Contains(t, msg, "\r\n\r\nline1\r\nline2\r\n")
}

func TestNewSMTPMailer_DisabledIsNil(t *testing.T) {
	assert.Nil(t, NewSMTPMailer(&config.MailConfig{Enabled: false}))
}

func TestWhatsAppClient_Send(t *testing.T) {
	var got whatsAppMessage
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewWhatsAppClient(&config.WhatsAppConfig{Enabled: true, APIURL: srv.URL, Token: "secret", Sender: "EMS"})
	require.NotNil(t, c)

	err := c.SendWhatsApp(context.Background(), "+94770000000", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, whatsAppMessage{From: "EMS", To: "+94770000000", Text: "hello"}, got)
}

func TestWhatsAppClient_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewWhatsAppClient(&config.WhatsAppConfig{Enabled: true, APIURL: srv.URL})
	err := c.SendWhatsApp(context.Background(), "+94770000000", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
