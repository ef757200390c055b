// Package printers renders CLI listings as colored tables or JSON.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/promoreel/pkg/app"
	"tableflip.dev/promoreel/pkg/bell"
	"tableflip.dev/promoreel/pkg/content"
	"tableflip.dev/promoreel/pkg/content/sqlstore"
	"tableflip.dev/promoreel/pkg/ledger"
)

// Printer writes listings to Out.
type Printer struct {
	Out  io.Writer
	JSON bool
}

// New returns a printer on the color-aware stdout.
func New(asJSON bool) *Printer {
	return &Printer{Out: color.Output, JSON: asJSON}
}

var (
	bold  = color.New(color.Bold)
	title = color.New(color.Bold, color.Underline)
	faint = color.New(color.Faint)
	warn  = color.New(color.FgHiYellow)
	good  = color.New(color.FgGreen)
)

func (p *Printer) json(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.Out, string(b))
	return err
}

func (p *Printer) table(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(p.Out, tbl)
}

func (p *Printer) heading(text string, count int) {
	_, _ = title.Fprint(p.Out, text)
	noun := "entries"
	if count == 1 {
		noun = "entry"
	}
	_, _ = faint.Fprintf(p.Out, " - %d %s\n", count, noun)
}

// Items prints the active items of a section.
func (p *Printer) Items(section content.SectionKey, items []app.ItemStatus) error {
	if p.JSON {
		return p.json(items)
	}
	p.heading(string(section), len(items))
	if len(items) == 0 {
		_, _ = faint.Fprintln(p.Out, " none")
		return nil
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Title"), bold.Sprint("Aspect"), bold.Sprint("Length"), bold.Sprint("Updated"), bold.Sprint("Status"))
	for _, it := range items {
		status := good.Sprint("shown")
		if it.Suppressed {
			status = warn.Sprint("dismissed")
		}
		tbl.AddRow(it.ID, it.Title, it.Aspect.String(), it.PlayLength().String(), stamp(it.Version), status)
	}
	p.table(tbl)
	return nil
}

// Bell prints notifications with their read flag.
func (p *Printer) Bell(entries []bell.Entry) error {
	if p.JSON {
		return p.json(entries)
	}
	unread := 0
	for _, e := range entries {
		if !e.Read {
			unread++
		}
	}
	p.heading(fmt.Sprintf("Notifications (%d unread)", unread), len(entries))
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 50
	for _, e := range entries {
		mark := bold.Sprint("●")
		if e.Read {
			mark = faint.Sprint("○")
		}
		tbl.AddRow(mark, e.ID, e.Title, faint.Sprint(e.Body))
	}
	p.table(tbl)
	return nil
}

// Records prints a ledger.
func (p *Printer) Records(kind app.LedgerKind, records []ledger.Record[string]) error {
	if p.JSON {
		return p.json(records)
	}
	p.heading(string(kind)+" ledger", len(records))
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, r := range records {
		tbl.AddRow(r.ID, stamp(r.Version))
	}
	p.table(tbl)
	return nil
}

// Migrations prints the migration status.
func (p *Printer) Migrations(status []sqlstore.MigrationStatus) error {
	if p.JSON {
		return p.json(status)
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Version"), bold.Sprint("State"), bold.Sprint("Applied"))
	for _, st := range status {
		state, at := warn.Sprint("pending"), ""
		if st.Applied {
			state, at = good.Sprint("applied"), st.At.Format(time.RFC3339)
		}
		tbl.AddRow(st.Version, state, at)
	}
	p.table(tbl)
	return nil
}

// Message prints a one-line result, or {"message": ...} as JSON.
func (p *Printer) Message(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if p.JSON {
		return p.json(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(p.Out, msg)
	return err
}

// Value prints v as JSON, or the message otherwise.
func (p *Printer) Value(v interface{}, format string, args ...interface{}) error {
	if p.JSON {
		return p.json(v)
	}
	_, err := fmt.Fprintf(p.Out, format+"\n", args...)
	return err
}

func stamp(version int64) string {
	if version <= 0 {
		return "-"
	}
	return content.TimeOf(version).Local().Format("2006-01-02 15:04")
}
