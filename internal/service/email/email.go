package email

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. Delivery is best-effort throughout the
// application; callers log failures instead of propagating them.
type Sender interface {
	SendPasswordResetOTP(to, name, otp string, expiresAt time.Time) error
}

// Mailer sends mail over SMTP.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	logger   *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func NewMailer(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

func (m *Mailer) SendPasswordResetOTP(to, name, otp string, expiresAt time.Time) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your password reset code")
	msg.SetBody("text/html", buildOTPBody(name, otp, expiresAt))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func buildOTPBody(name, otp string, expiresAt time.Time) string {
	return fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 520px; margin: auto;">
		<h2 style="color: #1a3c6e;">Password Reset</h2>
		<p>Hi %s,</p>
		<p>Use the code below to reset your password:</p>
		<p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">%s</p>
		<p>The code expires at %s. If you did not request a reset, ignore this email.</p>
	</div>`, name, otp, expiresAt.Format("15:04 MST"))
}
