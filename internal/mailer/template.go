// internal/mailer/template.go
package mailer

import (
	"fmt"
	"strings"
	"time"

	"finance-notifier/internal/models"
)

const (
	reminderSubject = "Reminder: {{description}} is due soon"

	reminderText = `Hi {{name}},

This is a reminder that your {{type}} "{{description}}" of {{amount}} is due on {{date}}.

You are receiving this because reminders are enabled on your account.`

	reminderHTML = `<p>Hi {{name}},</p>
<p>This is a reminder that your {{type}} <strong>{{description}}</strong> of <strong>{{amount}}</strong> is due on {{date}}.</p>
<p>You are receiving this because reminders are enabled on your account.</p>`
)

// BuildReminder renders the reminder email for an entry. The due date is
// shown in the user's time zone when it resolves; otherwise it stays UTC.
func BuildReminder(entry models.Entry, user models.User) Message {
	due := entry.Date.UTC()
	if user.Timezone != "" {
		if loc, err := time.LoadLocation(user.Timezone); err == nil {
			due = entry.Date.In(loc)
		}
	}

	data := map[string]interface{}{
		"name":        user.Name,
		"type":        entry.Type,
		"description": entry.Description,
		"amount":      fmt.Sprintf("%.2f", entry.Amount),
		"date":        due.Format("Jan 2, 2006 at 15:04"),
	}

	return Message{
		To:      user.Email,
		Subject: renderTemplate(reminderSubject, data),
		HTML:    renderTemplate(reminderHTML, data),
		Text:    renderTemplate(reminderText, data),
	}
}

// renderTemplate substitutes {{key}} placeholders and strips any that have no
// value.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
