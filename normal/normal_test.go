package normal

import "testing"

func TestDefault(t *testing.T) {
	var cases = []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  São   Paulo ", "Sao Paulo"},
		{"Química Nova", "Quimica Nova"},
		{"vol. 12, n. 3", "vol 12 n 3"},
		{"a\tb\nc", "a b c"},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Default(c.in); got != c.want {
			t.Errorf("Default(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDefaultIdempotent(t *testing.T) {
	inputs := []string{
		"Memórias do Instituto Oswaldo Cruz",
		"  multiple   spaces\tand tabs ",
		"plain",
		"",
	}
	for _, in := range inputs {
		once := Default(in)
		if twice := Default(once); twice != once {
			t.Errorf("Default not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestJournalTitle(t *testing.T) {
	var cases = []struct {
		help string
		in   string
		opts TitleOptions
		want string
	}{
		{"plain lowercase", "Revista X", TitleOptions{}, "revista x"},
		{"uppercase", "Revista X", TitleOptions{Uppercase: true}, "REVISTA X"},
		{"parenthetical dropped", "Revista X (Impresso)", TitleOptions{}, "revista x"},
		{"noise word dropped", "REVISTA X PRINT", TitleOptions{}, "revista x"},
		{"html entity", "Sa&uacute;de &amp; Sociedade", TitleOptions{}, "saude & sociedade"},
		{"accents", "Memórias do Instituto", TitleOptions{}, "memorias do instituto"},
		{"invalid chars discarded", "Revista X", TitleOptions{DiscardInvalidChars: true}, "revista x"},
		{"empty", "", TitleOptions{}, ""},
	}
	for _, c := range cases {
		t.Run(c.help, func(t *testing.T) {
			if got := JournalTitle(c.in, c.opts); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestStripParentheticals(t *testing.T) {
	var cases = []struct {
		in   string
		want string
	}{
		{"no parens", "no parens"},
		{"Revista X (Online)", "Revista X "},
		{"a (b (c) d) e", "a  e"},
		{"Rev(ista) Bras", " Bras"},
		{"unbalanced (span", "unbalanced (span"},
		{"(one) mid (two)", " mid "},
		{"", ""},
	}
	for _, c := range cases {
		if got := StripParentheticals(c.in); got != c.want {
			t.Errorf("StripParentheticals(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestExtractDOI(t *testing.T) {
	var cases = []struct {
		help string
		in   string
		want string
	}{
		{"single doi", "10.1590/S0100-12342020000100001", "10.1590/S0100-12342020000100001"},
		{"no doi", "not a doi at all", ""},
		{"two dois", "10.1000/a\n10.1000/b", ""},
		{"doi with prefix text", "doi: 10.1590/abc123", "10.1590/abc123"},
	}
	for _, c := range cases {
		t.Run(c.help, func(t *testing.T) {
			if got := ExtractDOI(c.in); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestExtracts(t *testing.T) {
	if got := ExtractYear("São Paulo, 2020 Mar"); got != "2020" {
		t.Errorf("ExtractYear: got %q, want 2020", got)
	}
	if got := ExtractYear("no year"); got != "" {
		t.Errorf("ExtractYear: got %q, want empty", got)
	}
	if got := ExtractIssue("n. 4 esp"); got != "4" {
		t.Errorf("ExtractIssue: got %q, want 4", got)
	}
	if got := ExtractVolume("v. 12"); got != "12" {
		t.Errorf("ExtractVolume: got %q, want 12", got)
	}
	if got := ExtractVolume("suppl"); got != "" {
		t.Errorf("ExtractVolume: got %q, want empty", got)
	}
}

func TestPipeline(t *testing.T) {
	p := &Pipeline{Normalizer: []Normalizer{
		Func(Default),
		Func(ReplaceNewlineAndTab),
	}}
	if got := p.Normalize(" Física  Médica "); got != "Fisica Medica" {
		t.Errorf("got %q", got)
	}
}
