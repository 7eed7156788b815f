package mail

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	msgs  []*gomail.Message
	err   error
	block chan struct{}
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.block != nil {
		<-f.block
	}
	f.msgs = append(f.msgs, m...)
	return f.err
}

func TestSMTPMailer_SendPasswordReset(t *testing.T) {
	fake := &fakeSender{}
	m := &SMTPMailer{dialer: fake, from: "Natours <hello@natours.io>", log: zerolog.Nop()}

	err := m.SendPasswordReset(context.Background(), "ana@example.com", "Ana Lima", "http://localhost/reset/abc")
	require.NoError(t, err)
	require.Len(t, fake.msgs, 1)

	msg := fake.msgs[0]
	assert.Equal(t, []string{"ana@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{resetSubject}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hi Ana,")
	assert.Contains(t, buf.String(), "http://localhost/reset/abc")
}

func TestSMTPMailer_SendFailure(t *testing.T) {
	m := &SMTPMailer{dialer: &fakeSender{err: errors.New("connection refused")}, log: zerolog.Nop()}

	err := m.SendPasswordReset(context.Background(), "ana@example.com", "Ana", "http://x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestSMTPMailer_Cancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	m := &SMTPMailer{dialer: &fakeSender{block: block}, log: zerolog.Nop()}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := m.SendPasswordReset(ctx, "ana@example.com", "Ana", "http://x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf).Level(zerolog.InfoLevel))

	require.NoError(t, m.SendPasswordReset(context.Background(), "ana@example.com", "Ana", "http://x/reset/abc"))
	assert.Contains(t, buf.String(), "ana@example.com")
	assert.False(t, strings.Contains(buf.String(), "http://x/reset/abc"), "reset link must not be logged at info")
}

func TestLogMailer_DebugLink(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(zerolog.New(&buf).Level(zerolog.DebugLevel))

	require.NoError(t, m.SendPasswordReset(context.Background(), "ana@example.com", "Ana", "http://x/reset/abc"))
	assert.Contains(t, buf.String(), "http://x/reset/abc")
}
