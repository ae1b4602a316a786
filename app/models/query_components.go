package models

// Intent is the parser's closed-set guess at the user's high-level
// goal.
const (
	IntentFindRestaurant   = "find_restaurant"
	IntentFindHotel        = "find_hotel"
	IntentFindEntertainment = "find_entertainment"
	IntentFindShopping     = "find_shopping"
	IntentFindBeauty       = "find_beauty"
	IntentFindTravel       = "find_travel"
	IntentFindKids         = "find_kids"
	IntentGeneral          = "general"
)

// AllIntents lists intents in the fixed lexical tie-break order used
// by intent detection. IntentGeneral is not a detectable intent — it
// is the zero-score fallback — so it is intentionally absent here.
var AllIntents = []string{
	IntentFindBeauty,
	IntentFindEntertainment,
	IntentFindHotel,
	IntentFindKids,
	IntentFindRestaurant,
	IntentFindShopping,
	IntentFindTravel,
}

// QueryComponents is the transient per-request record produced by the
// query parser.
type QueryComponents struct {
	Original            string
	Normalized           string
	Stripped             string
	Intent               string
	Location             string
	ServiceRequirements   []string
	TargetAudience        string
	PricePreference       string
	Keywords              []string
	Confidence            float64
}

// HasLocation reports whether a location was resolved.
func (q QueryComponents) HasLocation() bool {
	return q.Location != ""
}

// HasServiceRequirements reports whether any service tag was matched.
func (q QueryComponents) HasServiceRequirements() bool {
	return len(q.ServiceRequirements) > 0
}

// HasTargetAudience reports whether a target-audience tag was matched.
func (q QueryComponents) HasTargetAudience() bool {
	return q.TargetAudience != ""
}
