package handlers

import "testing"

func TestStatusColor(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{"in progress", "warning"},
		{"In Progress", "warning"},
		{"  ACTIVE ", "success"},
		{"pre-begin", "info"},
		{"completed", "secondary"},
		{"cancelled", "danger"},
		{"something else", "primary"},
		{"", "primary"},
	}
	for _, c := range cases {
		if got := StatusColor(c.status); got != c.want {
			t.Errorf("StatusColor(%q) = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestStatusIcon(t *testing.T) {
	if got := StatusIcon("Active"); got != "hammer-wrench" {
		t.Errorf("StatusIcon(Active) = %q", got)
	}
	if got := StatusIcon("unknown"); got != "information" {
		t.Errorf("StatusIcon(unknown) = %q, want information", got)
	}
	if got := StatusIcon(""); got != "information" {
		t.Errorf("StatusIcon empty = %q, want information", got)
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("2026-09-01T09:30:00Z"); got != "01.09.2026 09:30" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDate("not a date"); got != "not a date" {
		t.Errorf("unparseable input must pass through, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate(short, 10) = %q", got)
	}
	if got := Truncate("a longer sentence", 8); got != "a longer…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("мастер по ремонту", 6); got != "мастер…" {
		t.Errorf("Truncate must count runes, got %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Errorf("Truncate with zero max = %q", got)
	}
}
