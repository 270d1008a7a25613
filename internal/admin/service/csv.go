package service

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"maturity_backend/internal/admin/repository"
)

const (
	csvBOM        = "\ufeff"
	csvDateLayout = "02/01/2006 15:04"
	notAvailable  = "N/A"
)

var csvHeaders = []string{
	"Name",
	"Email",
	"Company",
	"Title",
	"Phone",
	"Registration Date",
	"Overall Score",
	"Maturity Level",
}

// csvRow renders one lead in header order.
func csvRow(r repository.LeadRow, loc *time.Location) []string {
	score, level := notAvailable, notAvailable
	if r.OverallScore != nil {
		score = strconv.FormatFloat(*r.OverallScore, 'f', 1, 64)
	}
	if r.MaturityLevel != nil {
		level = strconv.Itoa(*r.MaturityLevel)
	}
	return []string{
		r.Name,
		r.Email,
		r.Company,
		r.JobTitle,
		r.Phone,
		r.CreatedAt.In(loc).Format(csvDateLayout),
		score,
		level,
	}
}

// writeCSV writes a BOM, the bare header line and one line per row with
// every field quoted. encoding/csv only quotes when needed, so quoting is
// done here.
func writeCSV(w io.Writer, rows []repository.LeadRow, loc *time.Location) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvBOM + strings.Join(csvHeaders, ",") + "\n"); err != nil {
		return err
	}
	for _, r := range rows {
		fields := csvRow(r, loc)
		for i, f := range fields {
			fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFilename is leads-yyyy-MM-dd.csv for the export day.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("leads-%s.csv", now.Format("2006-01-02"))
}
