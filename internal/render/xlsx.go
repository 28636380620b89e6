package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	itinerarySheet = "Itinerary"
	budgetSheet    = "Budget"
)

// XLSX renders the trip as a workbook with an Itinerary sheet (one row per
// item) and a Budget sheet (one row per currency total).
func XLSX(in Input) ([]byte, error) {
	v := buildView(in)
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itinerarySheet); err != nil {
		return nil, fmt.Errorf("render.XLSX: %w", err)
	}
	if _, err := f.NewSheet(budgetSheet); err != nil {
		return nil, fmt.Errorf("render.XLSX: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("render.XLSX: %w", err)
	}

	rows := [][]any{{"Bucket", "Type", "Name", "Start", "End", "Amount", "Currency", "Status", "Link", "Notes"}}
	for _, b := range v.Buckets {
		for _, it := range b.Items {
			var amount any
			if it.amount != nil {
				amount, _ = it.amount.Float64()
			}
			rows = append(rows, []any{b.Key, it.Type, it.Name, it.Start, it.End, amount, it.currency, it.Status, it.Link, it.Notes})
		}
	}
	if err := writeRows(f, itinerarySheet, rows, header); err != nil {
		return nil, err
	}

	budget := [][]any{{"Source", "Currency", "Total"}}
	for _, c := range in.Budget.EmbeddedTotals.Currencies() {
		total, _ := in.Budget.EmbeddedTotals[c].Float64()
		budget = append(budget, []any{"embedded", c, total})
	}
	for _, c := range in.Budget.ExplicitTotals.Currencies() {
		total, _ := in.Budget.ExplicitTotals[c].Float64()
		budget = append(budget, []any{"explicit", c, total})
	}
	if err := writeRows(f, budgetSheet, budget, header); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render.XLSX: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("render.XLSX: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("render.XLSX: %s: %w", sheet, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return fmt.Errorf("render.XLSX: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("render.XLSX: %w", err)
	}
	return nil
}
