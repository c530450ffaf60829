// Package resolve maps cleaned cited journal titles to canonical journal
// identities from a compiled reference database. Resolution is a single
// request/response call; candidates are disambiguated with year-volume
// plausibility checks against observed and regression-predicted data.
package resolve

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"github.com/miku/citkit/refdb"
)

// Mode selects the title matching strategy.
type Mode int

const (
	ModeExact Mode = iota
	ModeFuzzy
)

// Defaults for fuzzy matching. The original threshold is not recoverable,
// so it stays configurable.
const (
	DefaultThreshold      = 0.92
	DefaultMinTitleLength = 6
	DefaultMinTitleWords  = 2
)

// Options configure a Resolver.
type Options struct {
	// UseExact enables the exact pass in Resolve.
	UseExact bool
	// UseFuzzy enables the fuzzy fallback pass in Resolve.
	UseFuzzy bool
	// Threshold is the minimum similarity for fuzzy candidates.
	Threshold float64
	// MinTitleLength: fuzzy matching needs more than this many characters.
	MinTitleLength int
	// MinTitleWords: fuzzy matching needs at least this many words.
	MinTitleWords int
	// Metric is the string similarity measure for fuzzy matching.
	Metric strutil.StringMetric
}

// Request carries the cleaned cited title plus optional year and volume
// used for plausibility validation.
type Request struct {
	// Title is the cited journal title, cleaned the same way the reference
	// database titles were (see normal.JournalTitle).
	Title  string
	Year   string
	Volume string
}

// Result is the outcome of one resolution call. On a miss only Status and
// CitedTitle are set.
type Result struct {
	Status               Status   `json:"status"`
	ISSNL                string   `json:"issn-l,omitempty"`
	ISSNs                []string `json:"issn,omitempty"`
	OfficialTitles       []string `json:"official-journal-title,omitempty"`
	OfficialAbbrevTitles []string `json:"official-abbreviated-journal-title,omitempty"`
	AlternativeTitles    []string `json:"alternative-journal-titles,omitempty"`
	CitedTitle           string   `json:"cited-journal-title,omitempty"`
}

// Resolver answers journal identity lookups against a reference database.
// The database is read-only, a single resolver is safe for concurrent use.
type Resolver struct {
	db   *refdb.Database
	opts Options
}

// New creates a resolver. Zero option fields fall back to defaults; both
// match modes are enabled when neither is requested explicitly.
func New(db *refdb.Database, opts Options) *Resolver {
	if !opts.UseExact && !opts.UseFuzzy {
		opts.UseExact = true
		opts.UseFuzzy = true
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MinTitleLength == 0 {
		opts.MinTitleLength = DefaultMinTitleLength
	}
	if opts.MinTitleWords == 0 {
		opts.MinTitleWords = DefaultMinTitleWords
	}
	if opts.Metric == nil {
		opts.Metric = metrics.NewJaroWinkler()
	}
	return &Resolver{db: db, opts: opts}
}

// Resolve runs the exact pass and, if that misses and fuzzy matching is
// enabled, the fuzzy pass. The cited title is echoed back in the result.
func (r *Resolver) Resolve(req Request) Result {
	res := Result{Status: StatusNotNormalized, CitedTitle: req.Title}
	if r.opts.UseExact {
		res = r.ResolveMode(req, ModeExact)
	}
	if !res.Status.IsNormalized() && r.opts.UseFuzzy {
		res = r.ResolveMode(req, ModeFuzzy)
	}
	res.CitedTitle = req.Title
	return res
}

// candidate is one ISSN-L under consideration, with its title similarity
// and plausibility assessment.
type candidate struct {
	issnl      string
	similarity float64
	set        int // validation set that confirmed it, or setNone
	volumeMode int
}

// ResolveMode runs a single matching pass.
func (r *Resolver) ResolveMode(req Request, mode Mode) Result {
	if req.Title == "" {
		return Result{Status: StatusNotNormalized}
	}
	switch mode {
	case ModeFuzzy:
		return r.resolveFuzzy(req)
	default:
		return r.resolveExact(req)
	}
}

func (r *Resolver) resolveExact(req Request) Result {
	issnls := r.db.TitleToISSNL[req.Title]
	switch len(issnls) {
	case 0:
		return Result{Status: StatusNotNormalized}
	case 1:
		return r.mount(StatusExact, issnls[0])
	}
	// The title is ambiguous; year-volume plausibility has to single out
	// one journal, otherwise the citation stays unresolved.
	cands := make([]candidate, 0, len(issnls))
	for _, issnl := range issnls {
		c := candidate{issnl: issnl}
		c.set, c.volumeMode = r.plausibility(issnl, req)
		cands = append(cands, c)
	}
	sortCandidates(cands)
	top := cands[0]
	if top.set == setNone {
		return Result{Status: StatusNotNormalized}
	}
	if len(cands) > 1 && cands[1].set == top.set {
		// two journals equally plausible, give up
		return Result{Status: StatusNotNormalized}
	}
	return r.mount(statusFor(ModeExact, top.volumeMode, top.set), top.issnl)
}

func (r *Resolver) resolveFuzzy(req Request) Result {
	title := req.Title
	words := strings.Fields(title)
	if len(title) <= r.opts.MinTitleLength || len(words) < r.opts.MinTitleWords {
		return Result{Status: StatusNotNormalized}
	}
	// Candidate titles must share the leading word, which keeps the
	// comparison space small.
	best := make(map[string]float64)
	for knownTitle, issnls := range r.db.TitleToISSNL {
		if !strings.HasPrefix(knownTitle, words[0]) {
			continue
		}
		sim := strutil.Similarity(title, knownTitle, r.opts.Metric)
		if sim < r.opts.Threshold {
			continue
		}
		for _, issnl := range issnls {
			if sim > best[issnl] {
				best[issnl] = sim
			}
		}
	}
	if len(best) == 0 {
		return Result{Status: StatusNotNormalized}
	}
	cands := make([]candidate, 0, len(best))
	for issnl, sim := range best {
		c := candidate{issnl: issnl, similarity: sim}
		c.set, c.volumeMode = r.plausibility(issnl, req)
		cands = append(cands, c)
	}
	sortCandidates(cands)
	top := cands[0]
	return r.mount(statusFor(ModeFuzzy, top.volumeMode, top.set), top.issnl)
}

// sortCandidates orders by similarity, then validation strength, then
// ISSN-L, so resolution is deterministic regardless of map iteration.
func sortCandidates(cands []candidate) {
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].similarity != cands[j].similarity {
			return cands[i].similarity > cands[j].similarity
		}
		if cands[i].set != cands[j].set {
			return cands[i].set > cands[j].set
		}
		return cands[i].issnl < cands[j].issnl
	})
}

// plausibility checks a single candidate journal against the year-volume
// sets: historical data first, then the ideal regression prediction, then
// the prediction widened by one volume. The volume comes from the citation
// when present, otherwise it is inferred from the regression equation.
func (r *Resolver) plausibility(issnl string, req Request) (set, volumeMode int) {
	if req.Year == "" || len(req.Year) != 4 {
		return setNone, volumeUnused
	}
	issns := r.db.MemberISSNs([]string{issnl})
	var keys []string
	volumeMode = volumeOriginal
	if req.Volume != "" {
		for _, issn := range issns {
			keys = append(keys, refdb.Key(issn, req.Year, req.Volume))
		}
	} else {
		volumeMode = volumeInferred
		for _, issn := range issns {
			if v := r.db.InferVolume(issn, req.Year); v != "" {
				keys = append(keys, refdb.Key(issn, req.Year, v))
			}
		}
	}
	if len(keys) == 0 {
		return setNone, volumeUnused
	}
	for _, k := range keys {
		if r.db.ISSNYearVolume[k] {
			return setDefault, volumeMode
		}
	}
	for _, k := range keys {
		if r.db.ISSNYearVolumeLR[k] {
			return setLR, volumeMode
		}
	}
	for _, k := range keys {
		if r.db.ISSNYearVolumeLRML1[k] {
			return setLRML1, volumeMode
		}
	}
	return setNone, volumeMode
}

// mount assembles the canonical identity for a matched ISSN-L.
func (r *Resolver) mount(status Status, issnl string) Result {
	data := r.db.ISSNLToData[issnl]
	res := Result{
		Status:               status,
		ISSNL:                refdb.HyphenateISSN(issnl),
		OfficialTitles:       data.MainTitles,
		OfficialAbbrevTitles: data.MainAbbrevTitles,
		AlternativeTitles:    data.AlternativeTitles,
	}
	for _, issn := range data.ISSNs {
		res.ISSNs = append(res.ISSNs, refdb.HyphenateISSN(issn))
	}
	return res
}
