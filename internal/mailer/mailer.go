package mailer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	gomail "github.com/go-mail/mail/v2"
	"go.uber.org/zap"

	"github.com/cdazamolina/ProjectsManager/internal/config"
	"github.com/cdazamolina/ProjectsManager/internal/logger"
)

const finishSubject = "PROJECT COMPLETION"

// Mailer renders the HTML template and delivers over SMTP. Delivery is
// best-effort: every failure is logged and swallowed, never returned.
type Mailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

func New(cfg config.MailConfig) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.From, cfg.Password)
	if cfg.SendTimeout > 0 {
		// deadline on the connection itself, so a send abandoned by the
		// fan-out still terminates instead of hanging on a wedged server
		dialer.Timeout = cfg.SendTimeout
	}
	return &Mailer{
		cfg:    cfg,
		dialer: dialer,
	}
}

// HTMLTemplate loads the template file and substitutes the [Text] placeholder.
func (m *Mailer) HTMLTemplate(text string) (string, error) {
	raw, err := os.ReadFile(m.cfg.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("read mail template: %w", err)
	}
	return strings.ReplaceAll(string(raw), "[Text]", text), nil
}

// ProjectFinished fans one message out to every recipient concurrently and
// waits for all sends, bounded by the configured timeout so a hung SMTP
// server cannot stall the finishing request forever.
func (m *Mailer) ProjectFinished(ctx context.Context, projectName string, recipients []string) {
	if len(recipients) == 0 {
		return
	}

	body, err := m.HTMLTemplate(fmt.Sprintf("The project %s has been finished successfully, good work.", projectName))
	if err != nil {
		logger.Warn("Mailer: could not render template", zap.Error(err))
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, recipient := range recipients {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			m.send(sendCtx, to, finishSubject, body)
		}(recipient)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-sendCtx.Done():
		logger.Warn("Mailer: delivery timed out, abandoning remaining sends",
			zap.Duration("timeout", m.cfg.SendTimeout),
			zap.Int("recipients", len(recipients)))
	}
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) {
	start := time.Now()

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, m.cfg.DisplayName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	errCh := make(chan error, 1)
	go func() {
		errCh <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Warn("Mailer: send failed",
				zap.String("to", to),
				zap.Error(err))
			return
		}
		logger.Info("Mailer: mail delivered",
			zap.String("to", to),
			zap.Duration("ms", time.Since(start)))
	case <-ctx.Done():
		logger.Warn("Mailer: send abandoned", zap.String("to", to))
	}
}
