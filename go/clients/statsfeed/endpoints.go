package statsfeed

const (
	// Base URL - the public NHL web API needs no key
	BaseURL = "https://api-web.nhle.com/v1"

	// Paths
	schedulePathFmt   = "/schedule/%s"               // date as YYYY-MM-DD
	playByPlayPathFmt = "/gamecenter/%s/play-by-play" // event id

	// Headers
	JsonHeader      = "accept"
	JsonContentType = "application/json"
)
