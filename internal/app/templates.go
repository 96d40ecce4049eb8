package app

import (
	"bytes"
	"fmt"
	htmltmpl "html/template"
	texttmpl "text/template"

	"github.com/jonasbrito1/gbcidadenova-sub000/internal/domain/notification"
)

// emailData is the data each lifecycle template is rendered with.
type emailData struct {
	AcademyName string
	StudentName string
	PlanName    string
	Amount      string
	DueDate     string // dd/mm/yyyy

	// filled from the kind's copy block
	Headline string
	Message  string
	Color    string
}

// emailCopy carries the kind-specific subject, headline and accent color.
// Copy and color vary per kind; the layout is shared.
type emailCopy struct {
	Subject  string // fmt verb receives the plan name
	Headline string
	Message  string
	Color    string
}

var kindCopy = map[notification.Kind]emailCopy{
	notification.KindThreeDaysBefore: {
		Subject:  "Sua mensalidade do plano %s vence em 3 dias",
		Headline: "Vencimento se aproximando",
		Message:  "Sua mensalidade vence em 3 dias. Evite atrasos e mantenha seu treino em dia!",
		Color:    "#1976d2",
	},
	notification.KindOneDayBefore: {
		Subject:  "Sua mensalidade do plano %s vence amanhã",
		Headline: "Vence amanhã",
		Message:  "Sua mensalidade vence amanhã. Não esqueça de realizar o pagamento.",
		Color:    "#f9a825",
	},
	notification.KindDueToday: {
		Subject:  "Sua mensalidade do plano %s vence hoje",
		Headline: "Vence hoje",
		Message:  "Sua mensalidade vence hoje. Realize o pagamento para manter sua matrícula ativa.",
		Color:    "#e65100",
	},
	notification.KindOverdue: {
		Subject:  "Mensalidade do plano %s em atraso",
		Headline: "Mensalidade em atraso",
		Message:  "Sua mensalidade está em atraso. Procure a recepção ou realize o pagamento o quanto antes para regularizar sua situação.",
		Color:    "#c62828",
	},
}

var htmlTemplate = htmltmpl.Must(htmltmpl.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px;">
  <div style="max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 8px; overflow: hidden;">
    <div style="background-color: {{.Color}}; color: #ffffff; padding: 24px;">
      <h1 style="margin: 0; font-size: 20px;">{{.AcademyName}}</h1>
      <p style="margin: 8px 0 0; font-size: 16px;">{{.Headline}}</p>
    </div>
    <div style="padding: 24px; color: #333333;">
      <p>Olá, <strong>{{.StudentName}}</strong>!</p>
      <p>{{.Message}}</p>
      <table style="width: 100%; border-collapse: collapse; margin: 16px 0;">
        <tr><td style="padding: 6px 0; color: #777;">Plano</td><td style="padding: 6px 0; text-align: right;">{{.PlanName}}</td></tr>
        <tr><td style="padding: 6px 0; color: #777;">Valor</td><td style="padding: 6px 0; text-align: right;"><strong>R$ {{.Amount}}</strong></td></tr>
        <tr><td style="padding: 6px 0; color: #777;">Vencimento</td><td style="padding: 6px 0; text-align: right;">{{.DueDate}}</td></tr>
      </table>
      <p style="color: #777; font-size: 12px;">Caso já tenha efetuado o pagamento, desconsidere este aviso.</p>
    </div>
  </div>
</body>
</html>`))

var textTemplate = texttmpl.Must(texttmpl.New("email").Parse(`{{.AcademyName}} - {{.Headline}}

Olá, {{.StudentName}}!

{{.Message}}

Plano: {{.PlanName}}
Valor: R$ {{.Amount}}
Vencimento: {{.DueDate}}

Caso já tenha efetuado o pagamento, desconsidere este aviso.
`))

// renderEmail produces the subject and both bodies for a lifecycle kind.
func renderEmail(kind notification.Kind, data emailData) (subject, html, text string, err error) {
	c, ok := kindCopy[kind]
	if !ok {
		return "", "", "", fmt.Errorf("unknown notification kind: %s", kind)
	}
	data.Headline = c.Headline
	data.Message = c.Message
	data.Color = c.Color

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTemplate.Execute(&htmlBuf, data); err != nil {
		return "", "", "", fmt.Errorf("rendering HTML email body: %w", err)
	}
	if err := textTemplate.Execute(&textBuf, data); err != nil {
		return "", "", "", fmt.Errorf("rendering text email body: %w", err)
	}
	return fmt.Sprintf(c.Subject, data.PlanName), htmlBuf.String(), textBuf.String(), nil
}
