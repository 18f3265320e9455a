package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_UnmarshalFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain date", `"2026-03-15"`, "2026-03-15"},
		{"timestamp truncated", `"2026-03-15T14:30:00Z"`, "2026-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if d.String() != tt.want {
				t.Errorf("String = %q, want %q", d.String(), tt.want)
			}
		})
	}
}

func TestDate_UnmarshalNull(t *testing.T) {
	var acct AccountSummary
	if err := json.Unmarshal([]byte(`{"samAccountName":"jdoe","accountExpirationDate":null}`), &acct); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if acct.AccountExpirationDate != nil && !acct.AccountExpirationDate.IsZero() {
		t.Errorf("null expiration should stay unset, got %v", acct.AccountExpirationDate)
	}
}

func TestDate_UnmarshalInvalid(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"15/03/2026"`), &d); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestDate_MarshalQuotedDate(t *testing.T) {
	d := NewDate(2026, time.March, 15)
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `"2026-03-15"` {
		t.Errorf("Marshal = %s, want \"2026-03-15\"", data)
	}
}

func TestDate_AddYears(t *testing.T) {
	d := NewDate(2026, time.August, 28)
	if got := d.AddYears(1).String(); got != "2027-08-28" {
		t.Errorf("AddYears(1) = %q, want 2027-08-28", got)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-01-31")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.String() != "2026-01-31" {
		t.Errorf("String = %q", d.String())
	}

	if _, err := ParseDate("tomorrow"); err == nil {
		t.Error("expected error for unparseable date")
	}
}
