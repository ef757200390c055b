package printers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"tableflip.dev/promoreel/pkg/app"
	"tableflip.dev/promoreel/pkg/bell"
	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/ledger"
)

func TestItemsTable(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out}
	err := p.Items(content.SectionHome, []app.ItemStatus{
		{MediaItem: content.MediaItem{ID: "a", Title: "Studio tour", Version: 1}},
		{MediaItem: content.MediaItem{ID: "b", Title: "Bakery"}, Suppressed: true, DismissedVersion: 5},
	})
	if err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"home", "2 entries", "Studio tour", "shown", "dismissed", "15s"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestItemsJSON(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out, JSON: true}
	if err := p.Items(content.SectionSEO, []app.ItemStatus{{MediaItem: content.MediaItem{ID: "a"}, Suppressed: true}}); err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("not json: %v\n%s", err, out.String())
	}
	if len(decoded) != 1 || decoded[0]["id"] != "a" || decoded[0]["suppressed"] != true {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestBellCountsUnread(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out}
	_ = p.Bell([]bell.Entry{
		{NotificationItem: content.NotificationItem{ID: "n1", Title: "New cohort"}},
		{NotificationItem: content.NotificationItem{ID: "n2", Title: "Fresh reels"}, Read: true},
	})
	if !strings.Contains(out.String(), "(1 unread)") {
		t.Fatalf("output:\n%s", out.String())
	}
}

func TestRecordsAndMessage(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out}
	_ = p.Records(app.LedgerReel, []ledger.Record[string]{{ID: "a", Version: 0}})
	_ = p.Message("cleared %d", 3)
	got := out.String()
	if !strings.Contains(got, "reel ledger - 1 entry") || !strings.Contains(got, "cleared 3") {
		t.Fatalf("output:\n%s", got)
	}
}
