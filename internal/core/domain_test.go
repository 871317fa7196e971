package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-03-15", true},
		{"2024-12-01", true},
		{"2024-3-15", false},
		{"15-03-2024", false},
		{"", false},
		{"not-a-date", false},
	}
	for i, tc := range cases {
		d, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("case %d expected ok, got %v", i, err)
			}
			if d.String() != tc.in {
				t.Fatalf("case %d round trip mismatch: %s", i, d)
			}
			continue
		}
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestDateKeysMatch(t *testing.T) {
	// A parsed remote date and a locally computed calendar key must be
	// the same map key, otherwise entries silently land on no day.
	parsed, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatal(err)
	}
	local := NewDate(2024, time.March, 15)
	if parsed != local {
		t.Fatalf("parsed %v and computed %v are different keys", parsed, local)
	}
	buckets := DayBuckets{parsed: {{Project: "p", Hours: 1}}}
	if len(buckets[local]) != 1 {
		t.Fatal("lookup through computed key missed the bucket")
	}
}

func TestProjectDisplayName(t *testing.T) {
	cases := []struct {
		p    Project
		want string
	}{
		{Project{Name: "Acme", CustomerName: "Bob"}, "Acme | Bob"},
		{Project{Name: "Acme"}, "Acme"},
	}
	for i, tc := range cases {
		if got := tc.p.DisplayName(); got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestProjectValidate(t *testing.T) {
	good := Project{AggregateID: "p1", Name: "Acme"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Project{
		{Name: "Acme"},
		{AggregateID: "p1"},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
}
