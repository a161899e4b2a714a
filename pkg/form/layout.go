package form

import "github.com/goliatone/go-makerdb/pkg/schema"

// Row is one visual row of a form.
type Row []schema.Field

// Pack arranges fields into rows. The single layout places one field per
// row; two-column pairs fields and gives full-width fields a row of their
// own. Field order is preserved.
func Pack(fields []schema.Field, layout Layout) []Row {
	rows := make([]Row, 0, len(fields))
	if layout != LayoutTwoColumn {
		for _, f := range fields {
			rows = append(rows, Row{f})
		}
		return rows
	}

	var open Row
	for _, f := range fields {
		if f.FullWidth() {
			if open != nil {
				rows = append(rows, open)
				open = nil
			}
			rows = append(rows, Row{f})
			continue
		}
		open = append(open, f)
		if len(open) == 2 {
			rows = append(rows, open)
			open = nil
		}
	}
	if open != nil {
		rows = append(rows, open)
	}
	return rows
}
