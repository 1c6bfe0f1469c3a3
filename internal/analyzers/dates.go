package analyzers

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// now is replaced in tests to pin "Present" ranges.
var now = time.Now

var months = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

const monthName = `(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`

var dateRange = regexp.MustCompile(`(?i)(?:` + monthName + `\s+|(\d{1,2})/)?((?:19|20)\d{2})\s*(?:-|–|—|to)\s*(?:(?:` + monthName + `\s+|(\d{1,2})/)?((?:19|20)\d{2})|(present|current|now|today))`)

// DateRange is a parsed employment span in absolute months.
type DateRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Months returns the length of the range in months.
func (r DateRange) Months() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

func monthIndex(year, month int) int {
	return year*12 + month - 1
}

func parseMonth(name, numeric string, fallback int) int {
	if name != "" {
		if m, ok := months[strings.ToLower(name)[:3]]; ok {
			return m
		}
	}
	if numeric != "" {
		if m, err := strconv.Atoi(numeric); err == nil && m >= 1 && m <= 12 {
			return m
		}
	}
	return fallback
}

// ParseDateRanges finds every employment date range in text.
func ParseDateRanges(text string) []DateRange {
	var ranges []DateRange
	for _, m := range dateRange.FindAllStringSubmatch(text, -1) {
		startYear, _ := strconv.Atoi(m[3])
		start := monthIndex(startYear, parseMonth(m[1], m[2], 1))

		var end int
		if m[7] != "" {
			t := now()
			end = monthIndex(t.Year(), int(t.Month()))
		} else {
			endYear, _ := strconv.Atoi(m[6])
			end = monthIndex(endYear, parseMonth(m[4], m[5], 12))
		}
		if end < start {
			continue
		}
		ranges = append(ranges, DateRange{Start: start, End: end})
	}
	return ranges
}

// mergeRanges sorts ranges and merges overlapping ones.
func mergeRanges(ranges []DateRange) []DateRange {
	if len(ranges) == 0 {
		return nil
	}
	sorted := append([]DateRange(nil), ranges...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []DateRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// gapsOver returns the gaps, in months, between merged ranges that exceed limit.
func gapsOver(merged []DateRange, limit int) []int {
	var gaps []int
	for i := 1; i < len(merged); i++ {
		gap := merged[i].Start - merged[i-1].End
		if gap > limit {
			gaps = append(gaps, gap)
		}
	}
	return gaps
}
