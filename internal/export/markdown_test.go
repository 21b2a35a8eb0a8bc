package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iksnae/event-contexts/internal"
	"github.com/iksnae/event-contexts/internal/contexts"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		report  func() *internal.Report
		want    []string
		notWant []string
	}{
		{
			name:   "basic report",
			report: func() *internal.Report { return internal.CreateTestReport("r1") },
			want: []string{
				"# Event r1",
				"**Project:** mobile",
				"**Platform:** android",
				"**Contexts:** 2",
				"## Operating System\n",
				"_Android · Version: 14_",
				"| Key | Value |",
				"| Name | Android |",
				"## User\n",
				"_dev@example.com_",
			},
		},
		{
			name: "alias shown when it differs from type",
			report: func() *internal.Report {
				r := internal.CreateTestReport("r2")
				r.Cards[0].Alias = "client_os"
				r.Cards[0].Title = "Client Operating System"
				return r
			},
			want: []string{"## Client Operating System (`client_os`)"},
		},
		{
			name: "links, meta and escaping",
			report: func() *internal.Report {
				r := internal.CreateTestReport("r3")
				r.Cards[0].Entries = []contexts.Entry{
					{Key: "trace_id", Subject: "Trace ID", Value: contexts.StringValue("abc"), Action: &contexts.Action{Link: "/t/abc/"}},
					{Key: "cmd", Subject: "Command", Value: contexts.StringValue("a | b\nc")},
					{Key: "secret", Subject: "secret", Value: contexts.StringValue(""), Meta: contexts.MustParse(`{"rem":[["@password","s"]]}`)},
				}
				return r
			},
			want: []string{
				"| Trace ID | [abc](/t/abc/) |",
				`| Command | a \| b<br>c |`,
				"| secret |  _(annotated)_ |",
			},
		},
		{
			name: "card without entries",
			report: func() *internal.Report {
				r := internal.CreateTestReport("r4")
				r.Cards = r.Cards[:1]
				r.Cards[0].Entries = nil
				r.Cards[0].Summary = contexts.Summary{}
				return r
			},
			want:    []string{"_No data_"},
			notWant: []string{"| Key | Value |"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := (&MarkdownExporter{}).Export(tt.report(), &buf); err != nil {
				t.Fatalf("Export() error = %v", err)
			}
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.notWant {
				if strings.Contains(out, unwanted) {
					t.Errorf("output should not contain %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestMarkdownExporter_FallsBackToReportID(t *testing.T) {
	report := internal.CreateTestReport("r1")
	report.EventID = ""

	var buf bytes.Buffer
	if err := (&MarkdownExporter{}).Export(report, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "# Event r1\n") {
		t.Errorf("unexpected heading: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}
}
