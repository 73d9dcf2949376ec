package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"staffing-system/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPMailer_Send(t *testing.T) {
	cfg := config.SMTPConfig{Host: "smtp.example.com", Port: 587, User: "u", Password: "p", From: "avisos@example.com"}
	m := NewSMTPMailer(cfg)

	var gotAddr string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, msg
		assert.NotNil(t, a)
		return nil
	}

	require.NoError(t, m.Send(context.Background(), "coord@example.com", "Camarero rechazó", "Línea 1\nLínea 2"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"coord@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Línea 1\r\nLínea 2")
	assert.Contains(t, string(gotMsg), "Subject: =?utf-8?q?")
}

func TestSMTPMailer_Disabled(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{})
	assert.Error(t, m.Send(context.Background(), "a@b.c", "s", "b"))
}

func TestSMTPMailer_TransportError(t *testing.T) {
	m := NewSMTPMailer(config.SMTPConfig{Host: "h", Port: 25, From: "f@x.y"})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("dial tcp: refused") }

	err := m.Send(context.Background(), "a@b.c", "s", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}
