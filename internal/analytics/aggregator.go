package analytics

import (
	"ShrinkIt-Backend/internal/domain"
	"slices"
)

const (
	// TopLimit caps every ranked list in a report.
	TopLimit = 10

	dateLayout = "2006-01-02"
)

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CountryCount struct {
	Country string `json:"country"`
	Count   int    `json:"count"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
}

// Report is the aggregate view of a link's click history.
type Report struct {
	TotalClicks    int64           `json:"totalClicks"`
	ClicksByDate   []DateCount     `json:"clicksByDate"`
	TopCountries   []CountryCount  `json:"topCountries"`
	TopReferrers   []ReferrerCount `json:"topReferrers"`
	ClicksByDevice map[string]int  `json:"clicksByDevice"`
}

// Aggregate reduces clicks, which must be in insertion order, into a Report.
// Days are UTC calendar days listed in order of first occurrence. Ranked
// lists are sorted by count descending with ties kept in first-seen order.
func Aggregate(totalClicks int64, clicks []domain.Click) Report {
	dates := newCounter()
	countries := newCounter()
	referrers := newCounter()
	devices := make(map[string]int)

	for i := range clicks {
		c := &clicks[i]
		dates.add(c.Timestamp.UTC().Format(dateLayout))
		countries.add(c.GeoInfo().Country)

		referrer := c.Referrer
		if referrer == "" {
			referrer = domain.DirectReferrer
		}
		referrers.add(referrer)
		devices[c.GetDeviceType()]++
	}

	report := Report{
		TotalClicks:    totalClicks,
		ClicksByDate:   make([]DateCount, 0, len(dates.buckets)),
		TopCountries:   make([]CountryCount, 0, TopLimit),
		TopReferrers:   make([]ReferrerCount, 0, TopLimit),
		ClicksByDevice: devices,
	}

	for _, b := range dates.buckets {
		report.ClicksByDate = append(report.ClicksByDate, DateCount{Date: b.key, Count: b.count})
	}
	for _, b := range countries.top(TopLimit) {
		report.TopCountries = append(report.TopCountries, CountryCount{Country: b.key, Count: b.count})
	}
	for _, b := range referrers.top(TopLimit) {
		report.TopReferrers = append(report.TopReferrers, ReferrerCount{Referrer: b.key, Count: b.count})
	}

	return report
}

type bucket struct {
	key   string
	count int
}

// counter groups keys preserving the order in which each key first appeared.
type counter struct {
	index   map[string]int
	buckets []bucket
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.buckets[i].count++
		return
	}
	c.index[key] = len(c.buckets)
	c.buckets = append(c.buckets, bucket{key: key, count: 1})
}

func (c *counter) top(n int) []bucket {
	ranked := slices.Clone(c.buckets)
	slices.SortStableFunc(ranked, func(a, b bucket) int {
		return b.count - a.count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
