// AngelaMos | 2026
// message.go

package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/pulsecrm/pulse-crm/internal/lead"
)

// LeadWonMessage is everything a sender needs to congratulate an owner.
type LeadWonMessage struct {
	RecipientEmail string
	RecipientName  string
	LeadID         string
	LeadName       string
	LeadEmail      string
	Company        string
	Status         string
}

func NewLeadWonMessage(l lead.LeadWithOwner) LeadWonMessage {
	return LeadWonMessage{
		RecipientEmail: l.OwnerEmail,
		RecipientName:  l.OwnerName,
		LeadID:         l.ID,
		LeadName:       l.Name,
		LeadEmail:      l.Email,
		Company:        l.Company,
		Status:         l.Status,
	}
}

func (m LeadWonMessage) Subject() string {
	return fmt.Sprintf(
		"🎉 Lead Won: Congratulations! Lead %s is now %s",
		m.LeadName,
		m.Status,
	)
}

func (m LeadWonMessage) companyOrNA() string {
	if m.Company == "" {
		return "N/A"
	}
	return m.Company
}

var leadWonHTML = template.Must(template.New("lead_won").Parse(`<p>Dear {{.RecipientName}},</p>
<p>The lead <strong>{{.LeadName}}</strong> for <strong>{{.Company}}</strong> has been successfully updated to <strong>{{.Status}}</strong>.</p>
<p>This is a great achievement!</p>
<p>Details:</p>
<ul>
  <li><strong>Email</strong>: {{.LeadEmail}}</li>
  <li><strong>Current Status</strong>: {{.Status}}</li>
</ul>
<p>Best regards,</p>
<p>Your PulseCRM Team</p>
`))

func (m LeadWonMessage) HTMLBody() (string, error) {
	data := m
	data.Company = m.companyOrNA()

	var buf bytes.Buffer
	if err := leadWonHTML.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render lead won email: %w", err)
	}
	return buf.String(), nil
}

func (m LeadWonMessage) PlainBody() string {
	return fmt.Sprintf(`Dear %s,

The lead %s for %s has been successfully updated to %s.
This is a great achievement!

Email: %s
Current Status: %s

Best regards,
Your PulseCRM Team
`,
		m.RecipientName,
		m.LeadName,
		m.companyOrNA(),
		m.Status,
		m.LeadEmail,
		m.Status,
	)
}
