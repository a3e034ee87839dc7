package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DateRole classifies what a resolved date means on the document.
type DateRole int

const (
	RoleBirth DateRole = iota
	RoleIssue
	RoleExpiry
)

func (r DateRole) String() string {
	switch r {
	case RoleBirth:
		return "birth"
	case RoleIssue:
		return "issue"
	case RoleExpiry:
		return "expiry"
	}
	return "unknown"
}

// DateCandidate is a calendar-valid date found in the text, possibly tied to
// a role through an explicit label.
type DateCandidate struct {
	ISO   string // yyyy-mm-dd
	Role  DateRole
	Label string // the label synonym that matched, empty for unlabeled finds
}

// Dates carries the resolved role assignments plus every valid candidate
// found, for diagnostics. Empty string means the role stayed unresolved.
type Dates struct {
	Birth      string
	Issue      string
	Expiry     string
	BirthByLbl bool
	IssueByLbl bool
	ExpByLbl   bool
	Candidates []string
}

// Plausible year windows per role. Labels are authoritative when present;
// these windows only steer the unlabeled inference.
const (
	birthYearMin  = 1920
	birthYearMax  = 2010
	issueYearMin  = 2000
	issueYearMax  = 2030
	expiryYearMin = 2020
	expiryYearMax = 2050
)

var dateLabels = map[DateRole][]string{
	RoleBirth:  {"FECHA DE NACIMIENTO", "NACIMIENTO", "FECHA NACIMIENTO", "F.NACIMIENTO", "F NACIMIENTO"},
	RoleIssue:  {"FECHA DE EMISIÓN", "EMISIÓN", "FECHA EMISIÓN"},
	RoleExpiry: {"FECHA DE VENCIMIENTO", "VENCIMIENTO", "FECHA VENCIMIENTO"},
}

// Four separator shapes: space, slash, dash, dot.
var unlabeledDateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b([0-3]?\d)\s+([0-1]?\d)\s+(\d{4})\b`),
	regexp.MustCompile(`\b([0-3]?\d)/([0-1]?\d)/(\d{4})\b`),
	regexp.MustCompile(`\b([0-3]?\d)-([0-1]?\d)-(\d{4})\b`),
	regexp.MustCompile(`\b([0-3]?\d)\.([0-1]?\d)\.(\d{4})\b`),
}

// DateResolver finds date tokens on the front face and assigns each to a
// role, labeled matches first, then year-range inference.
type DateResolver struct {
	labelRes map[DateRole][]*regexp.Regexp
}

func NewDateResolver() *DateResolver {
	r := &DateResolver{labelRes: make(map[DateRole][]*regexp.Regexp, len(dateLabels))}
	for role, labels := range dateLabels {
		for _, label := range labels {
			re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) +
				`\s*[:\-]?\s*([0-3]?\d\s*[/\-.]?\s*[0-1]?\d\s*[/\-.]?\s*\d{4})`)
			r.labelRes[role] = append(r.labelRes[role], re)
		}
	}
	return r
}

// Resolve scans text for labeled and unlabeled dates and returns the role
// assignments.
func (r *DateResolver) Resolve(text string) Dates {
	labeled := r.findLabeled(text)
	all := r.findAll(text)
	return assignDates(labeled, all)
}

func (r *DateResolver) findLabeled(text string) []DateCandidate {
	var out []DateCandidate
	for _, role := range []DateRole{RoleBirth, RoleIssue, RoleExpiry} {
		for i, re := range r.labelRes[role] {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			iso, ok := parseLooseDate(strings.TrimSpace(m[1]))
			if !ok {
				continue
			}
			out = append(out, DateCandidate{ISO: iso, Role: role, Label: dateLabels[role][i]})
		}
	}
	return out
}

// findAll collects every calendar-valid unlabeled date, deduplicated in
// discovery order.
func (r *DateResolver) findAll(text string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, re := range unlabeledDateRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			iso, ok := isoDate(m[1], m[2], m[3])
			if !ok {
				continue
			}
			if _, dup := seen[iso]; dup {
				continue
			}
			seen[iso] = struct{}{}
			out = append(out, iso)
		}
	}
	return out
}

// parseLooseDate splits a labeled capture like "29/05/2023" or "29 05 2023"
// into parts, trying each separator shape.
func parseLooseDate(raw string) (string, bool) {
	for _, sep := range []*regexp.Regexp{
		regexp.MustCompile(`\s+`),
		regexp.MustCompile(`/`),
		regexp.MustCompile(`-`),
		regexp.MustCompile(`\.`),
	} {
		parts := sep.Split(raw, -1)
		if len(parts) != 3 {
			continue
		}
		if iso, ok := isoDate(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2])); ok {
			return iso, true
		}
	}
	return "", false
}

func isoDate(dayS, monthS, yearS string) (string, bool) {
	day, err1 := strconv.Atoi(dayS)
	month, err2 := strconv.Atoi(monthS)
	year, err3 := strconv.Atoi(yearS)
	if err1 != nil || err2 != nil || err3 != nil {
		return "", false
	}
	if !validCalendarDate(day, month, year) {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// validCalendarDate accepts exactly the real calendar dates: month lengths
// are enforced and February 29 passes only in leap years.
func validCalendarDate(day, month, year int) bool {
	if year < 1900 || year > 2100 {
		return false
	}
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > daysIn(month, year) {
		return false
	}
	return true
}

func daysIn(month, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func assignDates(labeled []DateCandidate, all []string) Dates {
	d := Dates{Candidates: all}

	// Labels are authoritative; first match per role wins.
	for _, c := range labeled {
		switch c.Role {
		case RoleBirth:
			if d.Birth == "" {
				d.Birth, d.BirthByLbl = c.ISO, true
			}
		case RoleIssue:
			if d.Issue == "" {
				d.Issue, d.IssueByLbl = c.ISO, true
			}
		case RoleExpiry:
			if d.Expiry == "" {
				d.Expiry, d.ExpByLbl = c.ISO, true
			}
		}
	}

	// Birth: the ISO-earliest date within the plausible birth window.
	if d.Birth == "" && len(all) > 0 {
		earliest := ""
		for _, iso := range all {
			if !yearIn(iso, birthYearMin, birthYearMax) {
				continue
			}
			if earliest == "" || iso < earliest {
				earliest = iso
			}
		}
		d.Birth = earliest
	}

	// Issue: a plausible-year date that is not birth. With three or more
	// candidates the earliest remaining one is skipped first; it tends to be
	// a second read of the birth date.
	// TODO: replace the skip-one rule with nearest-to-median ranking once we
	// have a labeled corpus to validate against.
	if d.Issue == "" && len(all) >= 2 {
		var remaining []string
		for _, iso := range all {
			if iso == d.Birth || !yearIn(iso, issueYearMin, issueYearMax) {
				continue
			}
			remaining = append(remaining, iso)
		}
		sort.Strings(remaining)
		idx := 0
		if len(all) > 2 {
			idx = 1
		}
		if idx < len(remaining) {
			d.Issue = remaining[idx]
		}
	}

	// Expiry: the ISO-latest plausible date not already assigned.
	if d.Expiry == "" && len(all) >= 3 {
		latest := ""
		for _, iso := range all {
			if iso == d.Birth || iso == d.Issue || !yearIn(iso, expiryYearMin, expiryYearMax) {
				continue
			}
			if iso > latest {
				latest = iso
			}
		}
		d.Expiry = latest
	}

	return d
}

func yearIn(iso string, min, max int) bool {
	if len(iso) < 4 {
		return false
	}
	year, err := strconv.Atoi(iso[:4])
	if err != nil {
		return false
	}
	return year >= min && year <= max
}
