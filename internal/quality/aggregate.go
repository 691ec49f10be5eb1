package quality

import "github.com/gridmend/gridmend/internal/model"

const mergedExampleCap = 5

// Aggregate merges per-chunk issue lists into one global list. Issues group
// by (type, sheet, column|global); counts sum, examples concatenate capped at
// five, the first description wins, severity takes the highest contribution.
// Output is severity-descending with group discovery order preserved.
func Aggregate(chunkIssues ...[]model.Issue) []model.Issue {
	byKey := make(map[string]int)
	var merged []model.Issue
	contributions := make([]int, 0)

	for _, issues := range chunkIssues {
		for _, is := range issues {
			key := is.GroupKey()
			if i, ok := byKey[key]; ok {
				merged[i].Count += is.Count
				if is.Severity > merged[i].Severity {
					merged[i].Severity = is.Severity
				}
				for _, ex := range is.Examples {
					if len(merged[i].Examples) >= mergedExampleCap {
						break
					}
					merged[i].Examples = append(merged[i].Examples, ex)
				}
				contributions[i]++
				continue
			}
			byKey[key] = len(merged)
			cp := is
			cp.Examples = append([]string(nil), is.Examples...)
			if len(cp.Examples) > mergedExampleCap {
				cp.Examples = cp.Examples[:mergedExampleCap]
			}
			merged = append(merged, cp)
			contributions = append(contributions, 1)
		}
	}

	for i := range merged {
		if contributions[i] > 1 {
			merged[i].Description += " (aggregated across chunks)"
		}
	}
	model.SortIssues(merged)
	return merged
}
