// Package needlinks holds the requirement references found in source files and
// the JSON link cache they are persisted to between the scan and link phases.
package needlinks

import "fmt"

// NeedLink is a single requirement reference found in a source file.
type NeedLink struct {
	File     string `json:"file"` // slash-separated, relative to the scan or git root
	Line     int    `json:"line"` // 1-based
	Tag      string `json:"tag"`
	Need     string `json:"need"`
	FullLine string `json:"full_line"`
}

// Location returns "<file>:<line>".
func (l NeedLink) Location() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// GroupByNeed partitions links by referenced need id.
// Groups are returned in order of first appearance and keep the input order of their members.
func GroupByNeed(links []NeedLink) ([]string, map[string][]NeedLink) {
	var order []string
	groups := make(map[string][]NeedLink)
	for _, link := range links {
		if _, ok := groups[link.Need]; !ok {
			order = append(order, link.Need)
		}
		groups[link.Need] = append(groups[link.Need], link)
	}
	return order, groups
}
