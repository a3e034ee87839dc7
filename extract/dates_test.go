package extract

import (
	"reflect"
	"testing"
)

func TestCalendarValidity(t *testing.T) {
	tests := []struct {
		day, month, year int
		want             bool
	}{
		{1, 1, 2000, true},
		{31, 1, 2000, true},
		{31, 4, 2023, false}, // April has 30 days
		{31, 6, 2023, false}, // June has 30 days
		{30, 6, 2023, true},
		{29, 2, 2024, true},  // leap year
		{29, 2, 2023, false}, // not a leap year
		{29, 2, 2000, true},  // divisible by 400
		{29, 2, 1900, false}, // divisible by 100, not 400
		{30, 2, 2024, false}, // never a Feb 30
		{0, 1, 2000, false},
		{1, 13, 2000, false},
		{1, 0, 2000, false},
		{1, 1, 1899, false}, // below year floor
		{1, 1, 2101, false}, // above year ceiling
	}
	for _, tt := range tests {
		if got := validCalendarDate(tt.day, tt.month, tt.year); got != tt.want {
			t.Errorf("validCalendarDate(%d,%d,%d) = %v, want %v", tt.day, tt.month, tt.year, got, tt.want)
		}
	}
}

func TestFindAllSeparators(t *testing.T) {
	r := NewDateResolver()
	text := "a 30 03 2006 b 29/05/2023 c 01-12-2030 d 15.08.1995 e"
	d := r.Resolve(text)
	want := []string{"2006-03-30", "2023-05-29", "2030-12-01", "1995-08-15"}
	if !reflect.DeepEqual(d.Candidates, want) {
		t.Fatalf("candidates = %v, want %v", d.Candidates, want)
	}
}

func TestFindAllDeduplicates(t *testing.T) {
	r := NewDateResolver()
	d := r.Resolve("29/05/2023 y 29-05-2023 y 29.05.2023")
	if len(d.Candidates) != 1 || d.Candidates[0] != "2023-05-29" {
		t.Fatalf("candidates = %v", d.Candidates)
	}
}

func TestLabeledDatesWin(t *testing.T) {
	r := NewDateResolver()
	text := "FECHA DE NACIMIENTO 30 03 2006 FECHA DE EMISIÓN 29/05/2023 FECHA DE VENCIMIENTO 29/05/2031"
	d := r.Resolve(text)
	if d.Birth != "2006-03-30" || !d.BirthByLbl {
		t.Fatalf("birth = %q byLabel=%v", d.Birth, d.BirthByLbl)
	}
	if d.Issue != "2023-05-29" || !d.IssueByLbl {
		t.Fatalf("issue = %q byLabel=%v", d.Issue, d.IssueByLbl)
	}
	if d.Expiry != "2031-05-29" || !d.ExpByLbl {
		t.Fatalf("expiry = %q byLabel=%v", d.Expiry, d.ExpByLbl)
	}
}

func TestLabeledShortSynonym(t *testing.T) {
	r := NewDateResolver()
	d := r.Resolve("F.NACIMIENTO: 30-03-2006")
	if d.Birth != "2006-03-30" {
		t.Fatalf("birth = %q", d.Birth)
	}
}

// Two unlabeled dates plus one calendar-invalid token: the invalid date is
// dropped, birth takes the in-range earliest, issue the remaining one.
func TestInferenceTwoValidDates(t *testing.T) {
	r := NewDateResolver()
	d := r.Resolve("30 03 2006 y 29 05 2023 y 31 06 2023")

	want := []string{"2006-03-30", "2023-05-29"}
	if !reflect.DeepEqual(d.Candidates, want) {
		t.Fatalf("candidates = %v, want %v", d.Candidates, want)
	}
	if d.Birth != "2006-03-30" || d.BirthByLbl {
		t.Fatalf("birth = %q byLabel=%v", d.Birth, d.BirthByLbl)
	}
	if d.Issue != "2023-05-29" {
		t.Fatalf("issue = %q", d.Issue)
	}
	if d.Expiry != "" {
		t.Fatalf("expiry = %q", d.Expiry)
	}
}

// With three or more unlabeled dates the earliest remaining candidate is
// skipped before picking issue, and expiry takes the latest plausible date.
func TestInferenceThreeDatesSkipsOne(t *testing.T) {
	r := NewDateResolver()
	d := r.Resolve("30/03/2006 02/01/2015 29/05/2023 29/05/2031")

	if d.Birth != "2006-03-30" {
		t.Fatalf("birth = %q", d.Birth)
	}
	// Remaining in issue window sorted: 2015-01-02, 2023-05-29; skip one.
	if d.Issue != "2023-05-29" {
		t.Fatalf("issue = %q", d.Issue)
	}
	if d.Expiry != "2031-05-29" {
		t.Fatalf("expiry = %q", d.Expiry)
	}
}

func TestInferenceRespectsYearWindows(t *testing.T) {
	r := NewDateResolver()
	// 1915 is before the birth window; no other candidate fits any role.
	d := r.Resolve("01/01/1915")
	if d.Birth != "" || d.Issue != "" || d.Expiry != "" {
		t.Fatalf("expected no assignments, got %+v", d)
	}
}

func TestNoDates(t *testing.T) {
	r := NewDateResolver()
	d := r.Resolve("REPUBLICA DEL PERU DNI 72838997")
	if len(d.Candidates) != 0 {
		t.Fatalf("candidates = %v", d.Candidates)
	}
}
