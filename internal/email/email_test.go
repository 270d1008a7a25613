package email

import (
	"strings"
	"testing"
)

func TestRenderReportEmail(t *testing.T) {
	html, err := renderEmailTemplate("report.html", reportEmailData{
		baseEmailData: baseEmailData{
			Title:    subjectReport,
			Heading:  "Seu diagnóstico está pronto",
			CTALabel: "Ver resultado completo",
			CTAURL:   "https://diagnostico.example.com/r/abc",
		},
		ReportEmail: ReportEmail{
			Name:         "Ana <b>",
			Company:      "Acme",
			LevelHeading: "NÍVEL 3 - ESTRUTURADO",
			OverallScore: "3.2",
			BrandName:    "MASTERVENDAS",
		},
		HasAttachments: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Olá Ana &lt;b&gt;", "NÍVEL 3 - ESTRUTURADO", "https://diagnostico.example.com/r/abc", "anexado"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected email to contain %q", want)
		}
	}
}

func TestBuildMessageAttachesReport(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "", "", "noreply@example.com", "Mastervendas")

	msg, err := s.buildMessage("ana@acme.com", subjectReport, "<p>oi</p>", Attachment{
		Content:  []byte("%PDF-1.3"),
		FileName: "diagnostico-maturidade-vendas.pdf",
		MIMEType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(msg.GetAttachments()); got != 1 {
		t.Fatalf("expected 1 attachment, got %d", got)
	}
	if to := msg.GetToString(); len(to) != 1 || !strings.Contains(to[0], "ana@acme.com") {
		t.Fatalf("unexpected recipients %v", to)
	}
}

type disabledSMTP struct{}

func (disabledSMTP) GetSMTPHost() string         { return "" }
func (disabledSMTP) GetSMTPPort() int            { return 587 }
func (disabledSMTP) GetSMTPUsername() string     { return "" }
func (disabledSMTP) GetSMTPPassword() string     { return "" }
func (disabledSMTP) GetEmailFromName() string    { return "" }
func (disabledSMTP) GetEmailFromAddress() string { return "" }
func (disabledSMTP) IsEmailEnabled() bool        { return false }

func TestNewSenderDisabledIsNoop(t *testing.T) {
	if _, ok := NewSender(disabledSMTP{}).(NoopSender); !ok {
		t.Fatalf("expected NoopSender when email is disabled")
	}
}
