package grammar

// Rule rewrites Search into Replace. The DSL allows identifiers as search
// strings, but the expander only ever looks up single letters.
type Rule struct {
	Search  string `json:"search"`
	Replace string `json:"replace"`
}

func (r Rule) String() string {
	return r.Search + "->" + r.Replace
}

// findRule returns the first rule whose search string equals search.
func findRule(rules []Rule, search string) (Rule, bool) {
	for _, r := range rules {
		if r.Search == search {
			return r, true
		}
	}
	return Rule{}, false
}
