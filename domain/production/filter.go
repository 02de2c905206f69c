package production

// FilterByMunicipality returns the records whose municipality equals name
// exactly. The result is never nil; an unknown name yields an empty slice.
func FilterByMunicipality(records []Record, name string) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if r.Municipality == name {
			out = append(out, r)
		}
	}
	return out
}

// Municipalities returns the distinct municipality names in first-seen order.
func Municipalities(records []Record) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		if !seen[r.Municipality] {
			seen[r.Municipality] = true
			names = append(names, r.Municipality)
		}
	}
	return names
}
