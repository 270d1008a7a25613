package service

import (
	"strings"
	"unicode"

	"maturity_backend/internal/admin/repository"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips combining marks, so "José" matches "jose".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// filterLeads keeps rows whose name, email or company contains term.
// An empty term keeps everything.
func filterLeads(rows []repository.LeadRow, term string) []repository.LeadRow {
	needle := fold(strings.TrimSpace(term))
	if needle == "" {
		return rows
	}
	out := make([]repository.LeadRow, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(fold(r.Name), needle) ||
			strings.Contains(fold(r.Email), needle) ||
			strings.Contains(fold(r.Company), needle) {
			out = append(out, r)
		}
	}
	return out
}
