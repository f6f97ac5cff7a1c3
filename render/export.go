package render

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nonsonwune/ncaafb_db/reports"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// ExportXLSX writes one sheet per result to path. Nulls are left blank.
func ExportXLSX(path string, results []reports.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	used := make(map[string]bool)
	for i, res := range results {
		name := sheetName(res.Title, i, used)

		if i == 0 {
			if err := f.SetSheetName(first, name); err != nil {
				return fmt.Errorf("error naming sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("error creating sheet %q: %w", name, err)
		}

		header := make([]any, 0, len(res.Data.Columns()))
		for _, c := range res.Data.Columns() {
			header = append(header, c)
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("error writing header of %q: %w", name, err)
		}

		for r, row := range res.Data.Rows() {
			cells := make([]any, len(row))
			for c, v := range row {
				cells[c] = v.Interface()
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				return fmt.Errorf("error writing row %d of %q: %w", r+1, name, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving %s: %w", path, err)
	}
	return nil
}

// sheetName makes a unique, valid sheet name from a title.
func sheetName(title string, i int, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}

	base := name
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetName {
			runes = runes[:maxSheetName-len(suffix)]
		}
		name = string(runes) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
