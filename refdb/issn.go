package refdb

import "regexp"

var issnPattern = regexp.MustCompile(`^\d{4}-?\d{3}[0-9Xx]$`)

// CleanISSN validates an ISSN and returns its compact 8 character form,
// hyphen removed and check character upper case. Returns the empty string
// for anything not shaped like an ISSN.
func CleanISSN(issn string) string {
	if !issnPattern.MatchString(issn) {
		return ""
	}
	if len(issn) == 9 {
		issn = issn[:4] + issn[5:]
	}
	if issn[7] == 'x' {
		issn = issn[:7] + "X"
	}
	return issn
}

// HyphenateISSN renders a compact ISSN in the usual 4-4 display form.
func HyphenateISSN(issn string) string {
	if len(issn) != 8 {
		return issn
	}
	return issn[:4] + "-" + issn[4:]
}
