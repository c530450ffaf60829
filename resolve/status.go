package resolve

// Status encodes the terminal outcome of a resolution call. Zero means the
// cited title could not be normalized. Codes 1-7 are exact matches, 8-14
// fuzzy matches; the suffix records which validation set confirmed the
// candidate and whether the volume came from the citation or was inferred
// from the regression equation.
type Status int

const (
	StatusNotNormalized                     Status = 0
	StatusExact                             Status = 1
	StatusExactValidated                    Status = 2
	StatusExactValidatedLR                  Status = 3
	StatusExactValidatedLRML1               Status = 4
	StatusExactVolumeInferredValidated      Status = 5
	StatusExactVolumeInferredValidatedLR    Status = 6
	StatusExactVolumeInferredValidatedLRML1 Status = 7
	StatusFuzzyValidated                    Status = 8
	StatusFuzzyValidatedLR                  Status = 9
	StatusFuzzyValidatedLRML1               Status = 10
	StatusFuzzyVolumeInferredValidated      Status = 11
	StatusFuzzyVolumeInferredValidatedLR    Status = 12
	StatusFuzzyVolumeInferredValidatedLRML1 Status = 13
	StatusFuzzy                             Status = 14
)

// IsNormalized reports whether the resolution produced a match at all.
func (s Status) IsNormalized() bool { return s != StatusNotNormalized }

// IsExact reports whether the match came from a literal title lookup.
func (s Status) IsExact() bool { return s >= StatusExact && s <= StatusExactVolumeInferredValidatedLRML1 }

// IsFuzzy reports whether the match came from approximate title comparison.
func (s Status) IsFuzzy() bool { return s >= StatusFuzzyValidated && s <= StatusFuzzy }

func (s Status) String() string {
	switch {
	case s == StatusNotNormalized:
		return "not-normalized"
	case s.IsExact():
		return "exact"
	case s.IsFuzzy():
		return "fuzzy"
	}
	return "unknown"
}

// Validation sets, in the order they are consulted.
const (
	setNone    = iota
	setLRML1   // predicted volume, plus or minus one
	setLR      // predicted volume
	setDefault // historically observed
)

// Volume provenance for the validation key.
const (
	volumeUnused = iota
	volumeOriginal
	volumeInferred
)

// statusFor maps match mode, volume provenance and validation set to the
// final status code.
func statusFor(mode Mode, volumeMode, set int) Status {
	if set == setNone {
		if mode == ModeFuzzy {
			return StatusFuzzy
		}
		return StatusExact
	}
	var s Status
	switch set {
	case setDefault:
		s = StatusExactValidated
	case setLR:
		s = StatusExactValidatedLR
	case setLRML1:
		s = StatusExactValidatedLRML1
	}
	if volumeMode == volumeInferred {
		s += 3
	}
	if mode == ModeFuzzy {
		s += 6
	}
	return s
}
