package email

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func sampleReport() ReportData {
	return ReportData{
		ID:              7,
		PatientName:     "Ada Lovelace",
		ImageType:       "X-Ray",
		BodyPart:        "Chest",
		ConfidenceScore: 88,
		RiskLevel:       "low",
		Findings:        []string{"Clear lung fields", "Normal cardiac silhouette"},
		Recommendations: []string{"Routine follow-up"},
		CreatedAt:       time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestSendReportEmail(t *testing.T) {
	var received postmarkEmail
	var gotToken string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Postmark-Server-Token")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"MessageID": "test-id"}`))
	}))
	defer server.Close()

	client := NewClient("test-token", "reports@mediscan.test", WithAPIURL(server.URL))
	tmpl := BuildReportTemplate(sampleReport(), "en", "https://mediscan.test")

	if err := client.Send("alice@example.com", tmpl); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotToken != "test-token" {
		t.Errorf("server token = %q, want %q", gotToken, "test-token")
	}
	if received.To != "alice@example.com" {
		t.Errorf("To = %q, want %q", received.To, "alice@example.com")
	}
	if received.From != "reports@mediscan.test" {
		t.Errorf("From = %q, want %q", received.From, "reports@mediscan.test")
	}
	if received.Subject != "Medical Report - X-Ray Analysis" {
		t.Errorf("Subject = %q", received.Subject)
	}
}

func TestSendNotConfigured(t *testing.T) {
	client := NewClient("", "reports@mediscan.test")

	err := client.Send("alice@example.com", BuildReportTemplate(sampleReport(), "en", "https://mediscan.test"))
	if err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}

func TestSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient("test-token", "reports@mediscan.test", WithAPIURL(server.URL))
	if err := client.Send("alice@example.com", BuildReportTemplate(sampleReport(), "en", "https://mediscan.test")); err == nil {
		t.Fatal("expected error on API failure")
	}
}

func TestBuildReportTemplateContents(t *testing.T) {
	tmpl := BuildReportTemplate(sampleReport(), "en", "https://mediscan.test")

	for _, want := range []string{"Clear lung fields", "Routine follow-up", "88%", "https://mediscan.test/reports/7"} {
		if !strings.Contains(tmpl.HTML, want) {
			t.Errorf("HTML missing %q", want)
		}
		if !strings.Contains(tmpl.Text, want) {
			t.Errorf("Text missing %q", want)
		}
	}
}

func TestBuildReportTemplateLanguageFallback(t *testing.T) {
	ro := BuildReportTemplate(sampleReport(), "ro", "https://mediscan.test")
	if !strings.Contains(ro.Text, "Stimate pacient") {
		t.Error("expected Romanian greeting")
	}

	unknown := BuildReportTemplate(sampleReport(), "xx", "https://mediscan.test")
	if !strings.Contains(unknown.Text, "Dear Patient") {
		t.Error("expected English fallback for unknown language")
	}
}
