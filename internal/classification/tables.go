package classification

import "strings"

// ElasticityLabel describes how discretionary a spending category is.
type ElasticityLabel string

const (
	// Inelastic marks daily necessities.
	Inelastic ElasticityLabel = "Inelastic"
	// Moderate is the default for anything not in the table.
	Moderate ElasticityLabel = "Moderate"
	// ElasticIsh marks discretionary or luxury spending.
	ElasticIsh ElasticityLabel = "Elastic-ish"
)

// RewardsCategory is a spending category that has a card rewards program worth suggesting.
type RewardsCategory string

const (
	// RewardsCoffee covers cafes and coffee chains.
	RewardsCoffee RewardsCategory = "coffee"
	// RewardsTransit covers public transport and commuting.
	RewardsTransit RewardsCategory = "transit"
)

// Keyword lists. English and US-merchant specific.
var (
	TravelKeywords = []string{
		"airline", "airlines", "airways", "delta air", "united air", "american air",
		"southwest", "jetblue", "alaska air", "spirit air", "frontier air", "lufthansa",
		"british airways", "air canada", "hotel", "motel", "marriott", "hilton", "hyatt",
		"sheraton", "holiday inn", "westin", "airbnb", "vrbo", "expedia", "booking.com",
		"priceline", "kayak", "hotels.com", "trivago", "orbitz", "travelocity", "uber",
		"lyft", "rental car", "hertz", "avis", "enterprise rent", "budget rent", "amtrak",
		"travel", "airport", "resort",
	}

	GamblingKeywords = []string{
		"casino", "draftkings", "fanduel", "betmgm", "caesars sportsbook", "pointsbet",
		"bovada", "pokerstars", "sportsbook", "betting", "lottery", "lotto", "gambling",
		"bet365", "wynn", "bellagio",
	}

	SubscriptionBrands = []string{
		"netflix", "spotify", "hulu", "disney+", "disney plus", "hbo", "max.com",
		"paramount+", "peacock", "apple.com/bill", "apple music", "youtube premium",
		"amazon prime", "prime video", "audible", "kindle unlimited", "adobe",
		"microsoft 365", "office 365", "dropbox", "icloud", "google storage",
		"google one", "github", "openai", "chatgpt", "patreon", "siriusxm", "pandora",
		"planet fitness", "peloton", "duolingo", "nytimes", "new york times", "wsj",
		"linkedin premium", "grammarly", "notion", "zoom.us", "slack",
	}

	TechUtilityKeywords = []string{
		"aws", "amazon web services", "google cloud", "gcp", "azure", "digitalocean",
		"linode", "heroku", "vercel", "netlify", "cloudflare", "godaddy", "namecheap",
		"squarespace", "wix", "domain", "hosting", "app store", "apple.com/bill",
		"google play", "microsoft", "github", "dropbox", "icloud", "comcast", "xfinity",
		"verizon", "at&t", "t-mobile", "spectrum", "electric", "utility", "water bill",
	}

	CoffeeKeywords = []string{
		"coffee", "cafe", "café", "espresso", "starbucks", "dunkin", "peet's",
		"tim hortons", "dutch bros", "blue bottle",
	}

	TransitKeywords = []string{
		"transit", "public transportation", "subway", "metro", "bus fare", "railway",
		"commuter", "mta", "bart", "clipper", "ventra", "septa", "parking", "toll",
	}

	InelasticCategories = []string{
		"groceries", "grocery", "housing", "rent", "mortgage", "utilities", "utility",
		"healthcare", "health care", "insurance", "medical", "pharmacy", "childcare",
	}

	ElasticCategories = []string{
		"entertainment", "dining", "restaurant", "restaurants", "travel", "shopping",
		"coffee", "alcohol", "bars", "gambling", "luxury", "recreation", "hobbies",
	}
)

// Compiled matchers over the keyword lists.
var (
	Travel       = MustMatcher("travel", TravelKeywords)
	Gambling     = MustMatcher("gambling", GamblingKeywords)
	Subscription = MustMatcher("subscription", SubscriptionBrands)
	TechUtility  = MustMatcher("tech_utility", TechUtilityKeywords)
	Coffee       = MustMatcher(string(RewardsCoffee), CoffeeKeywords)
	Transit      = MustMatcher(string(RewardsTransit), TransitKeywords)

	inelastic = MustMatcher("inelastic", InelasticCategories)
	elastic   = MustMatcher("elastic", ElasticCategories)
)

// Elasticity classifies a category name. Necessities are checked first so that
// "Utilities & Entertainment" style labels lean inelastic.
func Elasticity(category string) ElasticityLabel {
	category = strings.TrimSpace(category)
	switch {
	case category == "":
		return Moderate
	case inelastic.Matches(category):
		return Inelastic
	case elastic.Matches(category):
		return ElasticIsh
	default:
		return Moderate
	}
}

// Rewards returns the rewards category a spending category belongs to, if any.
func Rewards(category string) (RewardsCategory, bool) {
	switch {
	case Coffee.Matches(category):
		return RewardsCoffee, true
	case Transit.Matches(category):
		return RewardsTransit, true
	default:
		return "", false
	}
}

// RewardsCategories lists the recognized rewards categories in rule-generation order.
func RewardsCategories() []RewardsCategory {
	return []RewardsCategory{RewardsCoffee, RewardsTransit}
}
