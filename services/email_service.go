package services

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/WenderAlvesSantos/api-aecac/config"
	"github.com/WenderAlvesSantos/api-aecac/metrics"
	"github.com/WenderAlvesSantos/api-aecac/models"
)

// Mailer sends the transactional emails of the company lifecycle.
type Mailer interface {
	SendCompanyApproved(ctx context.Context, company *models.Company) error
	SendCompanyRejected(ctx context.Context, company *models.Company) error
	SendWelcome(ctx context.Context, name, email string, company *models.Company) error
}

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Transport delivers a rendered message.
type Transport interface {
	Send(ctx context.Context, from string, msg Message) error
}

const senderName = "AECAC"

// EmailService renders the templates and hands them to a Transport.
type EmailService struct {
	transport   Transport
	from        string
	frontendURL string
}

func NewEmailService(transport Transport, from, frontendURL string) *EmailService {
	return &EmailService{transport: transport, from: from, frontendURL: frontendURL}
}

// NewTransport picks the delivery backend from EMAIL_SERVICE.
func NewTransport(cfg *config.Config, log *zap.Logger) Transport {
	switch {
	case cfg.EmailService == "sendgrid" && cfg.SendGridAPIKey != "":
		return &SendGridTransport{apiKey: cfg.SendGridAPIKey}
	case cfg.EmailService == "smtp" || (cfg.EmailService == "" && cfg.SMTPHost != ""):
		return &SMTPTransport{dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)}
	default:
		log.Warn("email not configured, messages will only be logged")
		return &LogTransport{log: log}
	}
}

type emailData struct {
	Name        string
	Email       string
	Company     string
	Category    string
	FrontendURL string
}

func (s *EmailService) SendCompanyApproved(ctx context.Context, company *models.Company) error {
	data := emailData{Company: company.Name, Email: company.Email, FrontendURL: s.frontendURL}
	return s.send(ctx, "approved", company.Email, "🎉 Sua empresa foi aprovada na AECAC!", approvedHTML, approvedText, data)
}

func (s *EmailService) SendCompanyRejected(ctx context.Context, company *models.Company) error {
	data := emailData{Company: company.Name, Email: company.Email, FrontendURL: s.frontendURL}
	return s.send(ctx, "rejected", company.Email, "Sobre seu cadastro na AECAC", rejectedHTML, rejectedText, data)
}

func (s *EmailService) SendWelcome(ctx context.Context, name, email string, company *models.Company) error {
	data := emailData{Name: name, Email: email, Company: "N/A", Category: "N/A", FrontendURL: s.frontendURL}
	if company != nil {
		data.Company, data.Category = company.Name, company.Category
	}
	return s.send(ctx, "welcome", email, "Bem-vindo à AECAC! 🎉", welcomeHTML, welcomeText, data)
}

func (s *EmailService) send(ctx context.Context, name, to, subject string, html *htmltemplate.Template, text *texttemplate.Template, data emailData) (err error) {
	defer func() {
		result := "sent"
		if err != nil {
			result = "failed"
		}
		metrics.EmailsSent.WithLabelValues(name, result).Inc()
	}()

	if to == "" {
		return fmt.Errorf("email: empty recipient")
	}
	var htmlBuf, textBuf bytes.Buffer
	if err := html.Execute(&htmlBuf, data); err != nil {
		return fmt.Errorf("email: render html: %w", err)
	}
	if err := text.Execute(&textBuf, data); err != nil {
		return fmt.Errorf("email: render text: %w", err)
	}
	return s.transport.Send(ctx, s.from, Message{
		To:      to,
		Subject: subject,
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	})
}

// SMTPTransport delivers through an SMTP relay.
type SMTPTransport struct {
	dialer *gomail.Dialer
}

func (t *SMTPTransport) Send(_ context.Context, from string, msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, senderName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via smtp: %w", err)
	}
	return nil
}

// SendGridTransport delivers through the SendGrid v3 API.
type SendGridTransport struct {
	apiKey string
}

func (t *SendGridTransport) Send(ctx context.Context, from string, msg Message) error {
	message := mail.NewSingleEmail(
		mail.NewEmail(senderName, from),
		msg.Subject,
		mail.NewEmail("", msg.To),
		msg.Text,
		msg.HTML,
	)
	response, err := sendgrid.NewSendClient(t.apiKey).SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

// LogTransport only logs what would be sent.
type LogTransport struct {
	log *zap.Logger
}

func (t *LogTransport) Send(_ context.Context, _ string, msg Message) error {
	t.log.Info("email not sent (no transport configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

const emailFooter = `<div class="footer"><p>Este é um email automático, por favor não responda.</p>
<p>AECAC - Associação Empresarial e Comercial de Águas Claras</p></div>`

const emailStyle = `<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.container { max-width: 600px; margin: 0 auto; padding: 20px; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0; }
.content { background: #f9f9f9; padding: 30px; border-radius: 0 0 8px 8px; }
.button { display: inline-block; background: #1890ff; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0; }
.footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
</style>`

var approvedHTML = htmltemplate.Must(htmltemplate.New("approved").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8">` + emailStyle + `</head>
<body><div class="container">
<div class="header"><h1>🎉 Parabéns!</h1><p>Sua empresa foi aprovada na AECAC</p></div>
<div class="content">
<p>Olá,</p>
<p>É com grande satisfação que informamos que sua empresa <strong>{{.Company}}</strong> foi <strong>aprovada</strong> para fazer parte da Associação Empresarial e Comercial de Águas Claras (AECAC)!</p>
<p>Agora você pode:</p>
<ul>
<li>✅ Acessar benefícios exclusivos para associados</li>
<li>✅ Participar de capacitações e eventos</li>
<li>✅ Fazer parte da rede de empresas de Águas Claras</li>
</ul>
<p style="text-align: center;"><a href="{{.FrontendURL}}/associado/login" class="button">Criar Minha Conta de Associado</a></p>
<p><strong>Como criar sua conta:</strong></p>
<ol>
<li>Acesse a área do associado</li>
<li>Clique em "Não tem conta? Cadastre-se"</li>
<li>Use o mesmo email cadastrado: <strong>{{.Email}}</strong></li>
<li>Crie sua senha e comece a aproveitar!</li>
</ol>
<p>Bem-vindo à AECAC!</p>
<p>Equipe AECAC</p>
</div>` + emailFooter + `</div></body></html>`))

var approvedText = texttemplate.Must(texttemplate.New("approved").Parse(`Parabéns! Sua empresa foi aprovada na AECAC

Olá,

É com grande satisfação que informamos que sua empresa {{.Company}} foi aprovada para fazer parte da Associação Empresarial e Comercial de Águas Claras (AECAC)!

Agora você pode:
- Acessar benefícios exclusivos para associados
- Participar de capacitações e eventos
- Fazer parte da rede de empresas de Águas Claras

Como criar sua conta:
1. Acesse: {{.FrontendURL}}/associado/login
2. Clique em "Não tem conta? Cadastre-se"
3. Use o mesmo email cadastrado: {{.Email}}
4. Crie sua senha e comece a aproveitar!

Bem-vindo à AECAC!
Equipe AECAC
`))

var rejectedHTML = htmltemplate.Must(htmltemplate.New("rejected").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8">` + emailStyle + `</head>
<body><div class="container">
<div class="header"><h1>Informação sobre seu cadastro</h1></div>
<div class="content">
<p>Olá,</p>
<p>Informamos que o cadastro da empresa <strong>{{.Company}}</strong> não foi aprovado no momento.</p>
<p>Se você tiver dúvidas ou quiser mais informações, entre em contato conosco através dos nossos canais de atendimento.</p>
<p>Atenciosamente,<br>Equipe AECAC</p>
</div>` + emailFooter + `</div></body></html>`))

var rejectedText = texttemplate.Must(texttemplate.New("rejected").Parse(`Informação sobre seu cadastro

Olá,

Informamos que o cadastro da empresa {{.Company}} não foi aprovado no momento.

Se você tiver dúvidas ou quiser mais informações, entre em contato conosco através dos nossos canais de atendimento.

Atenciosamente,
Equipe AECAC
`))

var welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8">` + emailStyle + `</head>
<body><div class="container">
<div class="header"><h1>Bem-vindo, {{.Name}}!</h1><p>Sua conta foi criada com sucesso</p></div>
<div class="content">
<p>Olá {{.Name}},</p>
<p>Sua conta de associado foi criada com sucesso!</p>
<p>Você agora tem acesso a:</p>
<ul>
<li>🎁 <strong>Benefícios exclusivos</strong> - Descontos e condições especiais</li>
<li>📚 <strong>Capacitações</strong> - Cursos e treinamentos para seu negócio</li>
<li>📅 <strong>Eventos</strong> - Networking e eventos exclusivos</li>
<li>🏢 <strong>Rede de empresas</strong> - Conecte-se com outros associados</li>
</ul>
<p style="text-align: center;"><a href="{{.FrontendURL}}/associado" class="button">Acessar Minha Área</a></p>
<p><strong>Dados da sua empresa:</strong></p>
<ul><li>Nome: {{.Company}}</li><li>Categoria: {{.Category}}</li></ul>
<p>Se você tiver alguma dúvida, entre em contato conosco.</p>
<p>Bem-vindo à AECAC!</p>
<p>Equipe AECAC</p>
</div>` + emailFooter + `</div></body></html>`))

var welcomeText = texttemplate.Must(texttemplate.New("welcome").Parse(`Bem-vindo à AECAC!

Olá {{.Name}},

Sua conta de associado foi criada com sucesso!

Você agora tem acesso a:
- Benefícios exclusivos - Descontos e condições especiais
- Capacitações - Cursos e treinamentos para seu negócio
- Eventos - Networking e eventos exclusivos
- Rede de empresas - Conecte-se com outros associados

Acesse sua área: {{.FrontendURL}}/associado

Dados da sua empresa:
- Nome: {{.Company}}
- Categoria: {{.Category}}

Bem-vindo à AECAC!
Equipe AECAC
`))
