package model

// Wellness domains used to categorize exercises.
const (
	DomainKindness = "kindness"
	DomainSocial   = "social"
	DomainTime     = "time"
	DomainPhysical = "physical"
	DomainMind     = "mind"
)

// Domains lists the built-in categories in display order.
var Domains = []string{DomainKindness, DomainSocial, DomainTime, DomainPhysical, DomainMind}

// DomainLabels maps categories to display names.
var DomainLabels = map[string]string{
	DomainKindness: "Kindness",
	DomainSocial:   "Social Connection",
	DomainTime:     "Time Affluence",
	DomainPhysical: "Healthy Physical",
	DomainMind:     "Mind Control",
}

// Exercise is a catalog entry the log screen can prefill from.
type Exercise struct {
	Name    string
	Domain  string
	Minutes int
}

// Catalog is the built-in exercise list.
var Catalog = []Exercise{
	{Name: "Gratitude Journaling", Domain: DomainKindness, Minutes: 5},
	{Name: "Random Act of Kindness", Domain: DomainKindness, Minutes: 10},
	{Name: "Thank You Note", Domain: DomainKindness, Minutes: 15},
	{Name: "Quality Time", Domain: DomainSocial, Minutes: 30},
	{Name: "Reach Out to Friend", Domain: DomainSocial, Minutes: 10},
	{Name: "Active Listening", Domain: DomainSocial, Minutes: 20},
	{Name: "Mindfulness Meditation", Domain: DomainTime, Minutes: 10},
	{Name: "Digital Detox", Domain: DomainTime, Minutes: 60},
	{Name: "Savoring Exercise", Domain: DomainTime, Minutes: 15},
	{Name: "Nature Walk", Domain: DomainPhysical, Minutes: 20},
	{Name: "Sleep Hygiene Check", Domain: DomainPhysical, Minutes: 10},
	{Name: "Hydration Tracking", Domain: DomainPhysical, Minutes: 5},
	{Name: "Cognitive Reframing", Domain: DomainMind, Minutes: 15},
	{Name: "Breathing Exercise", Domain: DomainMind, Minutes: 5},
	{Name: "Visualization", Domain: DomainMind, Minutes: 10},
}

// DomainLabel returns the display name for a category, falling back to the
// category itself.
func DomainLabel(category string) string {
	if label, ok := DomainLabels[category]; ok {
		return label
	}
	return category
}
