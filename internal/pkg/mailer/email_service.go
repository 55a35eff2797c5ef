package mailer

import (
	"fmt"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, name string) error
	SendTrainerCredentials(toEmail, name, temporaryPassword string) error
	SendPaymentFailed(toEmail, name, className string) error
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
	frontendURL string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, frontendURL string, log logger.ILogger) IEmailService {
	return newEmailService(gomail.NewDialer(host, port, username, password), username, senderName, frontendURL, log)
}

func newEmailService(dialer sender, senderEmail, senderName, frontendURL string, log logger.ILogger) *emailService {
	return &emailService{
		dialer:      dialer,
		senderEmail: senderEmail,
		senderName:  senderName,
		frontendURL: frontendURL,
		logger:      log,
	}
}

func (s *emailService) message(toEmail, subject, body string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return m
}

func (s *emailService) send(kind, toEmail string, m *gomail.Message) error {
	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Mailer", "Failed to send email", map[string]interface{}{
			"kind":  kind,
			"to":    toEmail,
			"error": err.Error(),
		})
		return err
	}
	s.logger.Info("Mailer", "Email sent", map[string]interface{}{"kind": kind, "to": toEmail})
	return nil
}

func (s *emailService) SendWelcome(toEmail, name string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Witaj w klubie, %s!</h2>
			<p>Twoje konto zostało utworzone. Wybierz zajęcia i wykup karnet:</p>
			<p><a href="%s/classes">%s/classes</a></p>
		</div>
	`, name, s.frontendURL, s.frontendURL)

	return s.send(JobWelcome, toEmail, s.message(toEmail, "Witamy w Klubie Sztuk Walki", body))
}

func (s *emailService) SendTrainerCredentials(toEmail, name, temporaryPassword string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Cześć %s,</h2>
			<p>Utworzono dla Ciebie konto trenera.</p>
			<p>Login: <b>%s</b></p>
			<p>Hasło tymczasowe: <b style="letter-spacing: 2px;">%s</b></p>
			<p>Zmień hasło po pierwszym logowaniu: <a href="%s/login">%s/login</a></p>
		</div>
	`, name, toEmail, temporaryPassword, s.frontendURL, s.frontendURL)

	return s.send(JobTrainerCredentials, toEmail, s.message(toEmail, "Dane logowania do konta trenera", body))
}

func (s *emailService) SendPaymentFailed(toEmail, name, className string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Cześć %s,</h2>
			<p>Nie udało się pobrać płatności za karnet <b>%s</b>.</p>
			<p>Zaktualizuj metodę płatności: <a href="%s/subscriptions">%s/subscriptions</a></p>
		</div>
	`, name, className, s.frontendURL, s.frontendURL)

	return s.send(JobPaymentFailed, toEmail, s.message(toEmail, "Płatność za karnet nie powiodła się", body))
}

// logOnlyEmailService is used when SMTP is not configured.
type logOnlyEmailService struct {
	logger logger.ILogger
}

func NewLogOnlyEmailService(log logger.ILogger) IEmailService {
	return &logOnlyEmailService{logger: log}
}

func (s *logOnlyEmailService) log(kind, to string) error {
	s.logger.Warn("Mailer", "SMTP not configured, email skipped", map[string]interface{}{"kind": kind, "to": to})
	return nil
}

func (s *logOnlyEmailService) SendWelcome(toEmail, _ string) error {
	return s.log(JobWelcome, toEmail)
}

func (s *logOnlyEmailService) SendTrainerCredentials(toEmail, _, _ string) error {
	return s.log(JobTrainerCredentials, toEmail)
}

func (s *logOnlyEmailService) SendPaymentFailed(toEmail, _, _ string) error {
	return s.log(JobPaymentFailed, toEmail)
}
