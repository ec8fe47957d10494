package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"massobook/models"
)

const confirmationSubject = "Conferma Prenotazione Massoterapista"

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<h1>Ciao {{.Name}},</h1>
<p>Grazie per aver prenotato la tua visita{{if .Provider}} con {{.Provider}}{{end}}.</p>
<p>Dettagli della prenotazione:</p>
<ul>
  <li><strong>Data:</strong> {{.Date}}</li>
  <li><strong>Ora:</strong> {{.Time}}</li>
  <li><strong>Durata:</strong> 1 ora</li>
</ul>
<p>Sarai ricontattato{{if .Provider}} da {{.Provider}}{{end}} per la conferma finale.</p>
<p>Grazie mille ancora e a presto!</p>
`))

type confirmationView struct {
	models.ConfirmationPayload
	Provider string
}

func renderConfirmation(p models.ConfirmationPayload, provider string) (html, plain string, err error) {
	var buf bytes.Buffer
	if err := confirmationHTML.Execute(&buf, confirmationView{ConfirmationPayload: p, Provider: provider}); err != nil {
		return "", "", fmt.Errorf("render confirmation: %w", err)
	}
	plain = fmt.Sprintf("Ciao %s, la tua richiesta di prenotazione per il %s alle %s (durata 1 ora) è stata ricevuta. Sarai ricontattato per la conferma finale.",
		p.Name, p.Date, p.Time)
	return buf.String(), plain, nil
}
