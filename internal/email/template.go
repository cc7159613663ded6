package email

import (
	"fmt"
	"strings"
	"time"
)

// Template is a rendered email ready for delivery.
type Template struct {
	Subject string
	HTML    string
	Text    string
}

// ReportData carries the report fields the email template renders.
// ConfidenceScore uses the canonical 0-100 integer scale.
type ReportData struct {
	ID              int64
	PatientName     string
	ImageType       string
	BodyPart        string
	ConfidenceScore int
	RiskLevel       string
	Findings        []string
	Recommendations []string
	CreatedAt       time.Time
}

type translation struct {
	subject         string
	greeting        string
	reportReady     string
	reportDetails   string
	imageType       string
	bodyPart        string
	confidenceScore string
	riskLevel       string
	keyFindings     string
	recommendations string
	disclaimer      string
	disclaimerText  string
	footer          string
	viewOnline      string
}

var translations = map[string]translation{
	"en": {
		subject:         "Medical Report - %s Analysis",
		greeting:        "Dear Patient,",
		reportReady:     "Your medical image analysis report is ready.",
		reportDetails:   "Report Details",
		imageType:       "Image Type",
		bodyPart:        "Body Part",
		confidenceScore: "Confidence Score",
		riskLevel:       "Risk Level",
		keyFindings:     "Key Findings",
		recommendations: "Recommendations",
		disclaimer:      "Medical Disclaimer",
		disclaimerText:  "This AI analysis is for informational purposes only and should not replace professional medical diagnosis. Always consult with qualified healthcare professionals.",
		footer:          "Thank you for using MediScan",
		viewOnline:      "View Full Report Online",
	},
	"ro": {
		subject:         "Raport medical - Analiza %s",
		greeting:        "Stimate pacient,",
		reportReady:     "Raportul analizei imaginii dumneavoastra medicale este gata.",
		reportDetails:   "Detalii raport",
		imageType:       "Tip imagine",
		bodyPart:        "Zona corporala",
		confidenceScore: "Scor de incredere",
		riskLevel:       "Nivel de risc",
		keyFindings:     "Constatari principale",
		recommendations: "Recomandari",
		disclaimer:      "Avertisment medical",
		disclaimerText:  "Aceasta analiza AI are scop strict informativ si nu inlocuieste diagnosticul medical profesionist. Consultati intotdeauna personal medical calificat.",
		footer:          "Va multumim ca folositi MediScan",
		viewOnline:      "Vizualizati raportul complet online",
	},
}

// BuildReportTemplate renders the report email in the requested language,
// falling back to English for unknown languages.
func BuildReportTemplate(report ReportData, language, baseURL string) Template {
	t, ok := translations[language]
	if !ok {
		t = translations["en"]
	}

	subject := fmt.Sprintf(t.subject, report.ImageType)
	link := fmt.Sprintf("%s/reports/%d", baseURL, report.ID)

	var html strings.Builder
	html.WriteString(`<!DOCTYPE html><html><body style="font-family:sans-serif;max-width:600px;margin:0 auto;padding:20px">`)
	html.WriteString(`<h1 style="color:#3b82f6">MediScan</h1>`)
	fmt.Fprintf(&html, "<p>%s</p><p>%s</p>", t.greeting, t.reportReady)
	fmt.Fprintf(&html, "<h2>%s</h2><ul>", t.reportDetails)
	fmt.Fprintf(&html, "<li>%s: %s</li>", t.imageType, report.ImageType)
	fmt.Fprintf(&html, "<li>%s: %s</li>", t.bodyPart, report.BodyPart)
	fmt.Fprintf(&html, "<li>%s: %d%%</li>", t.confidenceScore, report.ConfidenceScore)
	fmt.Fprintf(&html, "<li>%s: %s</li></ul>", t.riskLevel, report.RiskLevel)
	fmt.Fprintf(&html, "<h2>%s</h2><ul>", t.keyFindings)
	for _, finding := range report.Findings {
		fmt.Fprintf(&html, "<li>%s</li>", finding)
	}
	fmt.Fprintf(&html, "</ul><h2>%s</h2><ul>", t.recommendations)
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&html, "<li>%s</li>", rec)
	}
	fmt.Fprintf(&html, `</ul><div style="background:#fef2f2;border:1px solid #fecaca;padding:16px"><strong>%s</strong><p>%s</p></div>`,
		t.disclaimer, t.disclaimerText)
	fmt.Fprintf(&html, `<p><a href="%s">%s</a></p>`, link, t.viewOnline)
	fmt.Fprintf(&html, "<p>%s</p>", t.footer)
	fmt.Fprintf(&html, "<p>%s</p>", report.CreatedAt.Format("2006-01-02"))
	html.WriteString("</body></html>")

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n%s\n\n%s:\n", t.greeting, t.reportReady, t.reportDetails)
	fmt.Fprintf(&text, "- %s: %s\n", t.imageType, report.ImageType)
	fmt.Fprintf(&text, "- %s: %s\n", t.bodyPart, report.BodyPart)
	fmt.Fprintf(&text, "- %s: %d%%\n", t.confidenceScore, report.ConfidenceScore)
	fmt.Fprintf(&text, "- %s: %s\n\n", t.riskLevel, report.RiskLevel)
	fmt.Fprintf(&text, "%s:\n", t.keyFindings)
	for _, finding := range report.Findings {
		fmt.Fprintf(&text, "- %s\n", finding)
	}
	fmt.Fprintf(&text, "\n%s:\n", t.recommendations)
	for _, rec := range report.Recommendations {
		fmt.Fprintf(&text, "- %s\n", rec)
	}
	fmt.Fprintf(&text, "\n%s: %s\n", t.disclaimer, t.disclaimerText)
	fmt.Fprintf(&text, "\n%s: %s\n\n%s\n", t.viewOnline, link, t.footer)

	return Template{Subject: subject, HTML: html.String(), Text: text.String()}
}
