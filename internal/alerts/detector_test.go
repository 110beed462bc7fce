package alerts

import (
	"testing"

	"uhc/internal/domain"
)

func strp(s string) *string { return &s }

func testMatch() *domain.Match {
	return &domain.Match{
		ID:          1,
		Author:      "dodgy_host",
		HostingName: strp("FriendlyGames"),
		IP:          "198.51.100.7:25565",
		Address:     strp("play.example.net"),
		Tags:        []string{"To100", "Rush"},
		Content:     "Come play on our BRAND NEW server!",
	}
}

func TestSubstringRuleMatchesCaseInsensitively(t *testing.T) {
	d, err := NewDetector([]domain.AlertRule{
		{ID: 1, Field: domain.AlertFieldContent, AlertOn: "brand new"},
	})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	hits := d.Check(testMatch())
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Field != domain.AlertFieldContent {
		t.Errorf("hit field = %q, want content", hits[0].Field)
	}
}

func TestExactRuleRequiresFullValue(t *testing.T) {
	cases := []struct {
		name    string
		alertOn string
		want    int
	}{
		{"full ip matches", "198.51.100.7:25565", 1},
		{"partial ip does not", "198.51.100.7", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDetector([]domain.AlertRule{
				{ID: 1, Field: domain.AlertFieldIP, AlertOn: tc.alertOn, Exact: true},
			})
			if err != nil {
				t.Fatalf("NewDetector: %v", err)
			}
			if got := len(d.Check(testMatch())); got != tc.want {
				t.Errorf("hits = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestTagRuleChecksEveryTag(t *testing.T) {
	d, err := NewDetector([]domain.AlertRule{
		{ID: 1, Field: domain.AlertFieldTags, AlertOn: "rush"},
	})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	hits := d.Check(testMatch())
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if hits[0].Value != "Rush" {
		t.Errorf("hit value = %q, want the original-cased tag", hits[0].Value)
	}
}

func TestOneHitPerRule(t *testing.T) {
	d, err := NewDetector([]domain.AlertRule{
		{ID: 1, Field: domain.AlertFieldTags, AlertOn: "o"},
	})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	// Both tags contain "o"; the rule still reports once.
	m := testMatch()
	m.Tags = []string{"To100", "gOld"}
	if got := len(d.Check(m)); got != 1 {
		t.Errorf("hits = %d, want 1 per rule", got)
	}
}

func TestInvalidRuleFailsLoad(t *testing.T) {
	cases := []struct {
		name string
		rule domain.AlertRule
	}{
		{"empty pattern", domain.AlertRule{ID: 1, Field: domain.AlertFieldIP}},
		{"unknown field", domain.AlertRule{ID: 1, Field: "port", AlertOn: "x"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewDetector([]domain.AlertRule{tc.rule}); err == nil {
				t.Error("NewDetector accepted an invalid rule")
			}
		})
	}
}

func TestReloadReplacesRules(t *testing.T) {
	d, err := NewDetector([]domain.AlertRule{
		{ID: 1, Field: domain.AlertFieldContent, AlertOn: "brand new"},
	})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}
	if err := d.Reload([]domain.AlertRule{
		{ID: 2, Field: domain.AlertFieldAddress, AlertOn: "example.net"},
	}); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	hits := d.Check(testMatch())
	if len(hits) != 1 || hits[0].Rule.ID != 2 {
		t.Fatalf("hits = %+v, want only the reloaded rule", hits)
	}
}

func TestCheckAllSkipsCleanMatches(t *testing.T) {
	d, err := NewDetector([]domain.AlertRule{
		{ID: 1, Field: domain.AlertFieldHostingName, AlertOn: "friendly"},
	})
	if err != nil {
		t.Fatalf("NewDetector: %v", err)
	}

	flagged := testMatch()
	clean := &domain.Match{ID: 2, Author: "honest_host", IP: "203.0.113.1"}
	got := d.CheckAll([]domain.Match{*flagged, *clean})
	if len(got) != 1 {
		t.Fatalf("flagged matches = %d, want 1", len(got))
	}
	if _, ok := got[flagged.ID]; !ok {
		t.Errorf("match %d missing from results", flagged.ID)
	}
}
