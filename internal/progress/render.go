package progress

import (
	"sort"
	"strings"
)

const (
	// maxLines caps how many entries the gist shows.
	maxLines = 5

	// Lines longer than maxLineRunes runes are cut to truncateAt runes plus
	// an ellipsis.
	maxLineRunes = 54
	truncateAt   = 50
)

// Stage markers; one per completion band, plus one for unknown progress.
const (
	markerUnknown = "🍳 "
	markerBand5   = "🍗 " // [80,100]
	markerBand4   = "🍔 " // [60,80)
	markerBand3   = "🍥 " // [40,60)
	markerBand2   = "🍣 " // [20,40)
	markerBand1   = "🥚 " // [0,20)
)

// marker picks the stage emoji for a record.
func marker(r Record) string {
	if !r.Ranked {
		return markerUnknown
	}
	switch {
	case r.Percent >= 80:
		return markerBand5
	case r.Percent >= 60:
		return markerBand4
	case r.Percent >= 40:
		return markerBand3
	case r.Percent >= 20:
		return markerBand2
	default:
		return markerBand1
	}
}

// Rank orders records for display: ranked records descending by percentage,
// then unranked descending by raw count, truncated to the top 5.
//
// Both sorts are stable, so equal values keep their encounter order. Ranked
// records always outrank unranked ones: a known percentage is considered more
// informative than any raw count.
func Rank(records []Record) []Record {
	var ranked, unranked []Record
	for _, r := range records {
		if r.Ranked {
			ranked = append(ranked, r)
		} else {
			unranked = append(unranked, r)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percent > ranked[j].Percent
	})
	sort.SliceStable(unranked, func(i, j int) bool {
		return unranked[i].Count > unranked[j].Count
	})

	combined := append(ranked, unranked...)
	if len(combined) > maxLines {
		combined = combined[:maxLines]
	}
	return combined
}

// Render formats records into display lines: at most 5, ranked first, with
// the progress column right-aligned to the widest label.
//
// Returns nil when there is nothing to show.
func Render(records []Record) []string {
	top := Rank(records)
	if len(top) == 0 {
		return nil
	}

	longest := 0
	for _, r := range top {
		if l := len(r.DisplayLabel()); l > longest {
			longest = l
		}
	}

	lines := make([]string, 0, len(top))
	for _, r := range top {
		label := r.DisplayLabel()
		pad := strings.Repeat(" ", longest-len(label))
		lines = append(lines, truncate(marker(r)+pad+label+": "+r.Title))
	}
	return lines
}

// truncate cuts a line to 50 runes plus "..." when it exceeds 54 runes.
// The limit applies to the whole line, marker included, not just the title.
func truncate(line string) string {
	runes := []rune(line)
	if len(runes) > maxLineRunes {
		return string(runes[:truncateAt]) + "..."
	}
	return line
}
