package catalog

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HumanSize renders a byte count using decimal units. Values of a
// terabyte or more use TB, a gigabyte or more GB, and everything else
// MB, always with two decimals.
func HumanSize(totalBytes int64) string {
	switch {
	case totalBytes >= 1_000_000_000_000:
		return fmt.Sprintf("%.2f TB", float64(totalBytes)/1_000_000_000_000)
	case totalBytes >= 1_000_000_000:
		return fmt.Sprintf("%.2f GB", float64(totalBytes)/1_000_000_000)
	default:
		return fmt.Sprintf("%.2f MB", float64(totalBytes)/1_000_000)
	}
}

// HumanDuration renders milliseconds as whole minutes, rounded to the
// nearest minute. Any nonzero duration reports at least one minute.
func HumanDuration(totalMilliseconds int64) string {
	totalSeconds := totalMilliseconds / 1000
	minutes := (totalSeconds + 30) / 60
	if minutes == 0 && totalSeconds > 0 {
		minutes = 1
	}
	if minutes == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d mins", minutes)
}

// NormalizeResolution canonicalizes Plex resolution labels: "4k"
// becomes "2160p" and bare scanline counts gain a "p" suffix. Unknown
// labels pass through lowercased.
func NormalizeResolution(resolution string) string {
	if resolution == "" {
		return ""
	}
	resolution = strings.ToLower(resolution)
	if resolution == "4k" {
		return "2160p"
	}
	if isDigits(resolution) {
		return resolution + "p"
	}
	return resolution
}

// NormalizeCodec canonicalizes codec labels to uppercase.
func NormalizeCodec(codec string) string {
	return strings.ToUpper(codec)
}

// YearRange renders a set of years as "Y" when all equal, "min-max"
// otherwise. Zero years are ignored; no valid years yields "".
func YearRange(years []int) string {
	var minYear, maxYear int
	for _, year := range years {
		if year == 0 {
			continue
		}
		if minYear == 0 || year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}
	switch {
	case minYear == 0:
		return ""
	case minYear == maxYear:
		return strconv.Itoa(minYear)
	default:
		return fmt.Sprintf("%d-%d", minYear, maxYear)
	}
}

// UniqueSorted returns the distinct non-empty values in sorted order.
func UniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// JoinSet renders a value set as a sorted, deduplicated CSV string.
func JoinSet(values []string) string {
	return strings.Join(UniqueSorted(values), ", ")
}

// JoinTags joins non-empty tags in their original order.
func JoinTags(tags []string) string {
	kept := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			kept = append(kept, tag)
		}
	}
	return strings.Join(kept, ", ")
}

// Role pairs an actor name with the part they play.
type Role struct {
	Name string
	Part string
}

// JoinRoles renders cast credits as "Name as Part", falling back to the
// bare name when no part is recorded.
func JoinRoles(roles []Role) string {
	credits := make([]string, 0, len(roles))
	for _, role := range roles {
		if role.Name == "" {
			continue
		}
		if role.Part != "" {
			credits = append(credits, role.Name+" as "+role.Part)
		} else {
			credits = append(credits, role.Name)
		}
	}
	return strings.Join(credits, ", ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
