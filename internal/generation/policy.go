package generation

// admissionPolicy gates an operation per caller tier. A zero free
// ceiling with PremiumOnly set means free callers are rejected outright
// regardless of their counter.
type admissionPolicy struct {
	FreeCeiling int
	PremiumOnly bool
}

// Admission is checked before the backend is called. Text operations
// share a ceiling of 10 free uses, image generation allows 5, and the
// editing operations plus resume review are premium only.
var policies = map[Operation]admissionPolicy{
	OpArticle:          {FreeCeiling: 10},
	OpBlogTitle:        {FreeCeiling: 10},
	OpCodeFix:          {FreeCeiling: 10},
	OpImage:            {FreeCeiling: 5},
	OpRemoveBackground: {PremiumOnly: true},
	OpRemoveObject:     {PremiumOnly: true},
	OpResumeReview:     {PremiumOnly: true},
}

func policyFor(op Operation) (admissionPolicy, bool) {
	p, ok := policies[op]
	return p, ok
}
