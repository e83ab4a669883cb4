package pdm

// Impute returns a new table with missing values recovered per the fixed
// per-column-class policy: numeric columns are zero-filled, string columns
// get the sentinel. Non-missing cells are never altered, so applying Impute
// to an already-imputed table is a no-op. Timestamp columns are left alone;
// they are key columns in every source and key presence is enforced by
// validation before imputation runs.
func Impute(t *Table, sentinel string) *Table {
	nt := t.Clone()
	for _, col := range nt.Columns() {
		for i, miss := range col.Missing {
			if !miss {
				continue
			}
			switch col.Type {
			case TypeInt:
				col.Ints[i] = 0
			case TypeFloat:
				col.Floats[i] = 0
			case TypeString:
				col.Strings[i] = sentinel
			case TypeTime:
				continue
			}
			col.Missing[i] = false
		}
	}
	return nt
}
