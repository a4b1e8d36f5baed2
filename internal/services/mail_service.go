package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/John17712/theralink-app/internal/config"
)

type IMailService interface {
	// SendSetupPasswordMail delivers a set-your-password link for accounts
	// created by admin grant or group invite. groupName is optional.
	SendSetupPasswordMail(to, link, groupName string) error
	SendResetPasswordMail(to, link string) error
}

type smtpMailService struct {
	cfg     config.SMTPConfig
	appName string
	htmlTpl *template.Template
	textTpl *template.Template
}

func NewSMTPMailService(cfg config.SMTPConfig) (IMailService, error) {
	return &smtpMailService{
		cfg:     cfg,
		appName: "TheraLink",
		htmlTpl: template.Must(template.New("html").Parse(mailHTMLTemplate)),
		textTpl: template.Must(template.New("text").Parse(mailTextTemplate)),
	}, nil
}

type mailData struct {
	Title     string
	Greeting  string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const mailHTMLTemplate = `<!doctype html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333; margin: 0; padding: 24px;">
    <h2 style="color: #0f2b23;">Welcome to <span style="color:#00ff9f;">{{.AppName}}</span>!</h2>
    <p>{{.Greeting}}</p>
    <p>{{.Intro}}</p>
    {{if .ButtonURL}}
    <p style="text-align: center; margin: 30px 0;">
      <a href="{{.ButtonURL}}" style="background:#00ff9f; color:#0f2b23; padding:12px 20px; text-decoration:none; border-radius:6px; font-weight:bold;">
        {{.ButtonTxt}}
      </a>
    </p>
    <p><small>This link will expire in 1 hour.</small></p>
    {{end}}
    <br>
    <p>Best regards,<br>{{.AppName}} Team</p>
    <p style="color:#888; font-size:12px;">© {{.Year}} {{.AppName}}. All rights reserved.</p>
  </body>
</html>`

const mailTextTemplate = `{{.Greeting}}

{{.Intro}}

{{if .ButtonURL}}{{.ButtonTxt}}:
{{.ButtonURL}}

This link will expire in 1 hour.
{{end}}
Best regards,
{{.AppName}} Team
`

func (s *smtpMailService) SendSetupPasswordMail(to, link, groupName string) error {
	subject := fmt.Sprintf("%s Access - Set Your Password", s.appName)
	intro := "You have been granted access to " + s.appName + ". Please set your password using the link below."
	if groupName != "" {
		intro = fmt.Sprintf("You have been granted group access to %s under '%s'. Please set your password using the link below.", s.appName, groupName)
	}

	html, text, err := s.render(mailData{
		Title:     subject,
		Greeting:  "Hello " + to + ",",
		Intro:     intro,
		ButtonURL: link,
		ButtonTxt: "Set Your Password",
		AppName:   s.appName,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func (s *smtpMailService) SendResetPasswordMail(to, link string) error {
	subject := s.appName + " password reset"

	html, text, err := s.render(mailData{
		Title:     subject,
		Greeting:  "Hi,",
		Intro:     "Use the link below to reset your " + s.appName + " password. If you didn't request this, you can ignore this email.",
		ButtonURL: link,
		ButtonTxt: "Reset Password",
		AppName:   s.appName,
		Year:      time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func (s *smtpMailService) render(data mailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	boundary := fmt.Sprintf("mixed_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = msg.WriteString(fmt.Sprintf(format, a...)) }

	write("From: %s\r\n", s.fromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if s.cfg.UseSSL {
		// SMTPS, usually port 465
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.cfg.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		return s.deliver(c, auth, to, msg.Bytes())
	}

	// STARTTLS, typically port 587
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.Dial("tcp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
		if err = c.StartTLS(tlsCfg); err != nil {
			return err
		}
	}

	return s.deliver(c, auth, to, msg.Bytes())
}

func (s *smtpMailService) deliver(c *smtp.Client, auth smtp.Auth, to string, msg []byte) error {
	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) fromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}
