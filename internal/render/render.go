// Package render turns a trip, its bucketed itinerary and its budget rollup
// into a downloadable document. Renderers are pure: they never touch the
// store and produce the same bytes for the same input.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AAWorks/atlas-infra/internal/domain"
)

// Input is everything a renderer needs for one trip.
type Input struct {
	Trip      domain.Trip
	Itinerary domain.BucketedItinerary
	Budget    domain.BudgetSummary
}

// Render produces the document for format f.
func Render(f domain.ExportFormat, in Input) (domain.Document, error) {
	doc := domain.Document{Format: f}
	var err error

	switch f {
	case domain.FormatMarkdown:
		doc.ContentType = "text/markdown; charset=utf-8"
		doc.Body = Markdown(in)
	case domain.FormatHTML:
		doc.ContentType = "text/html; charset=utf-8"
		doc.Body, err = HTML(in)
	case domain.FormatXLSX:
		doc.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		doc.Body, err = XLSX(in)
	case domain.FormatPDF:
		return domain.Document{}, fmt.Errorf("render.Render: %w: pdf", domain.ErrFormatNotImplemented)
	default:
		return domain.Document{}, fmt.Errorf("render.Render: %w: %q", domain.ErrUnsupportedFormat, f)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("render.Render: %w", err)
	}

	doc.Filename = Filename(in.Trip, f)
	return doc, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Filename derives a download name such as "la-getaway.md".
func Filename(t domain.Trip, f domain.ExportFormat) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(t.Title), "-"), "-")
	if base == "" {
		base = "trip"
	}
	ext := string(f)
	if f == domain.FormatMarkdown {
		ext = "md"
	}
	return base + "." + ext
}

// FormatMoney renders "USD 1,234.56". A missing currency leaves just the amount.
func FormatMoney(currency string, amount decimal.Decimal) string {
	return strings.TrimSpace(currency + " " + groupThousands(amount.StringFixed(2)))
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString("." + frac)
	}
	return sign + b.String()
}

// view is the shared, format-neutral projection of an Input.
type view struct {
	Title    string
	Dates    string
	Buckets  []bucketView
	Embedded []string
	Explicit []string
}

type bucketView struct {
	Key   string
	Items []itemView
}

type itemView struct {
	Type   string
	Name   string
	Start  string
	End    string
	Cost   string
	Link   string
	Notes  string
	Status string

	amount   *decimal.Decimal
	currency string
}

const timeLayout = "2006-01-02 15:04"

func buildView(in Input) view {
	loc := in.Trip.Location()
	v := view{
		Title: in.Trip.Title,
		Dates: optionalDate(in.Trip.StartDate) + " → " + optionalDate(in.Trip.EndDate),
	}

	for _, key := range in.Itinerary.Keys() {
		b := bucketView{Key: key}
		for _, e := range in.Itinerary.Buckets[key] {
			b.Items = append(b.Items, newItemView(e.Item, loc))
		}
		v.Buckets = append(v.Buckets, b)
	}

	for _, c := range in.Budget.EmbeddedTotals.Currencies() {
		v.Embedded = append(v.Embedded, FormatMoney(c, in.Budget.EmbeddedTotals[c]))
	}
	for _, c := range in.Budget.ExplicitTotals.Currencies() {
		v.Explicit = append(v.Explicit, FormatMoney(c, in.Budget.ExplicitTotals[c]))
	}
	return v
}

func newItemView(it domain.Item, loc *time.Location) itemView {
	iv := itemView{
		Type:   string(it.Type),
		Name:   it.Name,
		Start:  optionalTime(it.StartTime, loc),
		End:    optionalTime(it.EndTime, loc),
		Link:   it.Link,
		Notes:  it.Notes,
		Status: string(it.Status),
	}
	if it.Cost != nil && it.Cost.Currency != "" {
		iv.Cost = FormatMoney(it.Cost.Currency, it.Cost.Amount)
		amount := it.Cost.Amount
		iv.amount = &amount
		iv.currency = it.Cost.Currency
	}
	return iv
}

func optionalDate(d *time.Time) string {
	if d == nil {
		return "?"
	}
	return d.Format(time.DateOnly)
}

// optionalTime renders t in loc, "" when t is nil.
func optionalTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format(timeLayout)
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
