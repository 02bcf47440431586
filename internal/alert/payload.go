package alert

import (
	"strings"

	"fraudtrack/internal/models"
)

// BuildPayload assembles the outbound alert from the session's business
// fields as the applicant typed them, plus the scoring outcome.
func BuildPayload(p *models.SessionPayload, ip string, score float64, label, timestamp, caseFileBaseURL string) *Payload {
	fieldValue := func(name string) string {
		return p.Fields[name].Value
	}

	client := strings.TrimSpace(fieldValue("nom") + " " + fieldValue("prenom"))

	return &Payload{
		SessionID:   p.SessionID,
		Client:      client,
		Montant:     fieldValue("montant"),
		Revenu:      fieldValue("revenu"),
		CIN:         fieldValue("cin"),
		Adresse:     fieldValue("adresse"),
		Profession:  fieldValue("profession"),
		Duree:       fieldValue("duree"),
		IP:          ip,
		Score:       score,
		Label:       label,
		Timestamp:   timestamp,
		LienDossier: strings.TrimRight(caseFileBaseURL, "/") + "/sessions/" + p.SessionID,
	}
}
