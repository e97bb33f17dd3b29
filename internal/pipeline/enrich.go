package pipeline

import "oews/internal/table"

// enrich attaches the descriptive occupation attributes to the wide relation
// via a left-outer join on occupation_code, projecting only the code, name,
// and description from the lookup side. Occupation/area pairs with no lookup
// match keep nil name and description; the row and its wage columns are never
// dropped.
func enrich(wide, occupations *table.Table) *table.Table {
	lookup := occupations.Select(
		"occupation_code",
		"occupation_name",
		"occupation_description",
	)
	return leftJoin(wide, lookup, "occupation_code")
}
