package store

// Matches reports whether p passes the tag filter. An empty selection matches
// every project; otherwise every selected tag must be present on p.
func Matches(p Project, sel TagSelection) bool {
	for _, st := range sel {
		if !p.HasTag(st.Value) {
			return false
		}
	}
	return true
}

// FilterProjects returns the projects matching sel, in their original order.
func FilterProjects(projects []Project, sel TagSelection) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if Matches(p, sel) {
			out = append(out, p)
		}
	}
	return out
}
