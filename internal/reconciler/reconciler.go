// Package reconciler attaches cached requirement references to the needs they name.
package reconciler

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/eclipse-score/srclinker/internal/needlinks"
	"github.com/eclipse-score/srclinker/internal/needs"
)

// LinkFunc renders the source code link value stored on a need for one reference.
type LinkFunc func(link needlinks.NeedLink) (string, error)

// Options configures a Reconciler.
type Options struct {
	// Prefixes are tried in order when a need id is not found as written.
	Prefixes []string
	// Link renders link values. Defaults to "<file>:<line>".
	Link LinkFunc
}

// Diagnostic reports a reference to a need that does not exist.
type Diagnostic struct {
	File string
	Line int
	Need string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: Could not find %s", d.File, d.Line, d.Need)
}

// Result summarizes a reconciliation run.
type Result struct {
	Updated  int // needs that received at least one new link
	Appended int
	Skipped  int // links already present on the need
	Warnings []Diagnostic
}

type Reconciler struct {
	prefixes []string
	link     LinkFunc
	logger   hclog.Logger
}

// New creates a Reconciler. Prefixes are upper-cased the way external need ids are.
func New(opts Options, logger hclog.Logger) *Reconciler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	link := opts.Link
	if link == nil {
		link = func(l needlinks.NeedLink) (string, error) { return l.Location(), nil }
	}

	prefixes := make([]string, 0, len(opts.Prefixes))
	seen := make(map[string]bool, len(opts.Prefixes))
	for _, p := range opts.Prefixes {
		p = needs.NormalizePrefix(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		prefixes = append(prefixes, p)
	}

	return &Reconciler{prefixes: prefixes, link: link, logger: logger}
}

// Prefixes returns the normalized prefix list in lookup order.
func (r *Reconciler) Prefixes() []string {
	return append([]string(nil), r.prefixes...)
}

// FindNeed resolves id against coll, first as written and then with each prefix prepended.
func FindNeed(coll needs.Collection, id string, prefixes []string) (string, bool) {
	if coll.Has(id) {
		return id, true
	}
	for _, prefix := range prefixes {
		if candidate := prefix + id; coll.Has(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Reconcile appends one link per reference to the referenced need and returns a
// diagnostic for every reference whose need cannot be resolved.
func (r *Reconciler) Reconcile(links []needlinks.NeedLink, coll needs.Collection) (Result, error) {
	var res Result
	order, groups := needlinks.GroupByNeed(links)

	for _, id := range order {
		group := groups[id]
		resolved, ok := FindNeed(coll, id, r.prefixes)
		if !ok {
			for _, l := range group {
				d := Diagnostic{File: l.File, Line: l.Line, Need: l.Need}
				r.logger.Warn(d.String())
				res.Warnings = append(res.Warnings, d)
			}
			continue
		}

		values := make([]string, 0, len(group))
		for _, l := range group {
			v, err := r.link(l)
			if err != nil {
				return res, fmt.Errorf("failed to build link for %s: %w", l.Location(), err)
			}
			values = append(values, v)
		}

		var appended, skipped int
		err := coll.Update(resolved, func(n *needs.Need) error {
			appended, skipped = 0, 0
			for _, v := range values {
				if n.HasSourceCodeLink(v) {
					skipped++
					continue
				}
				n.SourceCodeLinks = append(n.SourceCodeLinks, v)
				appended++
			}
			return nil
		})
		if err != nil {
			return res, err
		}

		if appended > 0 {
			res.Updated++
		}
		res.Appended += appended
		res.Skipped += skipped
		r.logger.Debug("need linked", "need", resolved, "appended", appended, "skipped", skipped)
	}

	return res, nil
}
