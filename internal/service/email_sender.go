package service

import (
	"crypto/tls"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"

	"github.com/pedrovi35/SistemaFiscal-sub000/internal/config"
	"github.com/pedrovi35/SistemaFiscal-sub000/internal/model"
)

type EmailSender struct {
	dialer  *mail.Dialer
	from    string
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(cfg *config.Config, logger *logrus.Logger) *EmailSender {
	d := mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.SMTPHost,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	return &EmailSender{
		dialer:  d,
		from:    cfg.SMTPUser,
		logger:  logger,
		enabled: cfg.EmailEnabled,
	}
}

// SendGenerationNotification avisa o responsável que uma nova ocorrência de
// obrigação recorrente foi gerada automaticamente
func (es *EmailSender) SendGenerationNotification(email string, ob *model.Obligation) error {
	if !es.enabled || email == "" {
		es.logger.Debug("Envio de notificações desabilitado")
		return nil
	}

	subject := fmt.Sprintf("Nova obrigação gerada: %s", ob.Title)
	content := fmt.Sprintf(`
		<h1>Nova obrigação fiscal gerada</h1>
		<p>Obrigação: <strong>%s</strong></p>
		<p>Cliente: <strong>%s</strong></p>
		<p>Vencimento: <strong>%s</strong></p>
		<p>Tipo: <strong>%s</strong></p>
		<small>Este é um aviso automático do sistema fiscal, não responda a este email</small>
	`, ob.Title, ob.ClientName, ob.DueDate.Format("02/01/2006"), ob.Type)

	return es.sendEmail(email, subject, content)
}

// SendRunSummary envia o resumo de uma execução da geração diária
func (es *EmailSender) SendRunSummary(email string, run *model.GenerationRun) error {
	if !es.enabled || email == "" {
		es.logger.Debug("Envio de notificações desabilitado")
		return nil
	}

	subject := "Resumo da geração diária de obrigações"
	content := fmt.Sprintf(`
		<h1>Geração diária de obrigações</h1>
		<p>Modelos avaliados: <strong>%d</strong></p>
		<p>Ocorrências geradas: <strong>%d</strong></p>
		<p>Erros: <strong>%d</strong></p>
		<p>Data: <strong>%s</strong></p>
		<small>Este é um aviso automático do sistema fiscal, não responda a este email</small>
	`, run.Scanned, run.Generated, run.Errors, time.Now().Format("02/01/2006 15:04"))

	return es.sendEmail(email, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", es.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Erro ao enviar email")
		return fmt.Errorf("não foi possível enviar o email: %w", err)
	}

	es.logger.Infof("Email enviado com sucesso para %s", to)
	return nil
}
