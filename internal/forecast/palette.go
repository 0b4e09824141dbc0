package forecast

import "hash/fnv"

// CategoryColor returns the display color for a category. Known categories
// use their fixed palette entry; any other name hashes deterministically into
// the color cycle, so a category keeps its color across reloads.
func CategoryColor(name string) string {
	p := loadDistribution().Palette
	if c, ok := p.Categories[name]; ok {
		return c
	}
	if len(p.Cycle) == 0 {
		return "#94A3B8"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return p.Cycle[int(h.Sum32())%len(p.Cycle)]
}
