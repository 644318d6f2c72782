package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"
)

// TemplateData - данные для подстановки в шаблоны писем.
type TemplateData struct {
	Code           string
	Username       string
	UserEmail      string
	Phone          string
	Reason         string
	Name           string
	Subject        string
	Message        string
	SubscriberName string
	Year           int
}

// TemplateManager хранит разобранные html-шаблоны писем.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер с предзагруженными шаблонами платформы.
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	builtin := map[string]string{
		"otp":           otpTemplate,
		"deletion_otp":  deletionOTPTemplate,
		"deleted":       accountDeletedTemplate,
		"newsletter":    newsletterTemplate,
		"newSubscriber": newSubscriberTemplate,
		"contact":       contactTemplate,
	}
	for name, body := range builtin {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}

	return tm, nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[name]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// Шаблоны перенесены из HTML-писем оригинальной платформы
// (фирменный градиент ALPHA, крупный код, срок действия 10 минут).

const headerHTML = `
  <div style="background: linear-gradient(135deg, #FF4B2B 0%, #FF416C 100%); padding: 40px 0; text-align: center;">
    <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 700;">ALPHA</h1>
    <p style="color: rgba(255,255,255,0.9); margin: 5px 0 0; font-size: 14px;">PODCAST PLATFORM</p>
  </div>`

const footerHTML = `
  <div style="background-color: #f8f9fa; padding: 20px; text-align: center; border-top: 1px solid #eaeaea;">
    <p style="color: #cccccc; font-size: 12px; margin: 0;">© {{.Year}} ALPHA Podcast Platform. All rights reserved.</p>
  </div>`

const otpBoxHTML = `
  <div style="background-color: #f8f9fa; border-radius: 12px; padding: 20px; margin: 30px 0; text-align: center; border: 2px dashed #e0e0e0;">
    <span style="display: block; color: #888888; font-size: 12px; text-transform: uppercase;">Verification Code</span>
    <h1 style="color: #FF416C; font-size: 42px; font-weight: 800; letter-spacing: 8px; margin: 0;">{{.Code}}</h1>
  </div>
  <p style="color: #888888; font-size: 14px; text-align: center;">
    This code will expire in <strong>10 minutes</strong>. If you didn't request this, please ignore this email.
  </p>`

const otpTemplate = `
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #eaeaea; border-radius: 16px; overflow: hidden;">` +
	headerHTML + `
  <div style="padding: 40px 30px;">
    <h2 style="text-align: center;">Welcome to the Future of Audio!</h2>
    <p style="color: #555555; text-align: center;">
      Thank you for joining <strong>ALPHA Podcast Platform</strong>.
      Please enter the code below to verify your email address:
    </p>` + otpBoxHTML + `
  </div>` + footerHTML + `
</div>`

const deletionOTPTemplate = `
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #eaeaea; border-radius: 16px; overflow: hidden;">` +
	headerHTML + `
  <div style="padding: 40px 30px;">
    <h2 style="text-align: center;">Account Deletion Request</h2>
    <p style="color: #555555; text-align: center;">
      You have requested to delete your account. This action is irreversible.<br>
      Please enter the code below to confirm this action:
    </p>` + otpBoxHTML + `
  </div>` + footerHTML + `
</div>`

const accountDeletedTemplate = `
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #eaeaea; border-radius: 16px; overflow: hidden;">` +
	headerHTML + `
  <div style="padding: 40px 30px;">
    <h2>Account Deleted</h2>
    <p style="color: #555;"><strong>Username:</strong> {{.Username}}</p>
    <p style="color: #555;"><strong>Email:</strong> {{.UserEmail}}</p>
    <p style="color: #555;"><strong>Phone:</strong> {{.Phone}}</p>
    <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; border-left: 4px solid #FF416C;">
      <strong>Reason:</strong> {{.Reason}}
    </div>
  </div>` + footerHTML + `
</div>`

const newsletterTemplate = `
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #eaeaea; border-radius: 16px; overflow: hidden;">` +
	headerHTML + `
  <div style="padding: 40px 30px;">
    <h2 style="text-align: center;">You're on the list!</h2>
    <p style="color: #555555; text-align: center;">Thanks for subscribing to our newsletter! You'll now be the first to know about:</p>
    <ul style="color: #555555; margin: 20px auto; max-width: 400px;">
      <li>New episodes from top creators</li>
      <li>Exclusive content and interviews</li>
      <li>Special community perks</li>
    </ul>
  </div>` + footerHTML + `
</div>`

const newSubscriberTemplate = `
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #eaeaea; border-radius: 16px; overflow: hidden;">` +
	headerHTML + `
  <div style="padding: 40px 30px;">
    <h2 style="text-align: center;">New Subscriber!</h2>
    <p style="color: #555555; text-align: center;">
      User <strong>{{.SubscriberName}}</strong> has subscribed to your channel!
    </p>
  </div>` + footerHTML + `
</div>`

const contactTemplate = `
<div style="font-family: Helvetica, Arial, sans-serif; max-width: 600px; margin: 0 auto; border: 1px solid #eaeaea; border-radius: 16px; overflow: hidden;">
  <div style="background: linear-gradient(135deg, #FF4B2B 0%, #FF416C 100%); padding: 30px 0; text-align: center;">
    <p style="color: #ffffff; margin: 0; font-size: 18px; font-weight: 600;">New Contact Message</p>
  </div>
  <div style="padding: 40px 30px;">
    <div style="margin-bottom: 20px; border-bottom: 1px solid #eaeaea; padding-bottom: 20px;">
      <h3 style="margin: 0 0 10px 0;">Sender Details</h3>
      <p style="color: #555; margin: 5px 0;"><strong>Name:</strong> {{.Name}}</p>
      <p style="color: #555; margin: 5px 0;"><strong>Email:</strong> {{.UserEmail}}</p>
      <p style="color: #555; margin: 5px 0;"><strong>Subject:</strong> {{.Subject}}</p>
    </div>
    <div style="background-color: #f8f9fa; border-radius: 8px; padding: 20px; line-height: 1.6; border-left: 4px solid #FF416C;">
      {{.Message}}
    </div>
  </div>` + footerHTML + `
</div>`
