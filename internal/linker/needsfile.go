package linker

import (
	"fmt"

	"github.com/eclipse-score/srclinker/internal/needs"
	"github.com/eclipse-score/srclinker/internal/reconciler"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
)

// NeedsFileOptions describes a needs.json to inject links into.
type NeedsFileOptions struct {
	Input    string
	Output   string // defaults to Input
	Version  string // defaults to the document's current_version
	External []config.ExternalNeeds
	Prefixes []string // tried after the external needs prefixes
	Link     reconciler.LinkFunc
}

// LinkNeedsFile loads a needs.json together with its external needs, injects the
// link cache and writes the project's own needs back.
func (l *Linker) LinkNeedsFile(cachePath string, opts NeedsFileOptions, loader *needs.ExternalLoader) (reconciler.Result, error) {
	doc, store, err := needs.LoadFile(opts.Input, opts.Version)
	if err != nil {
		return reconciler.Result{}, err
	}

	var prefixes []string
	if len(opts.External) > 0 {
		if loader == nil {
			loader = needs.NewExternalLoader(nil, l.logger)
		}
		prefixes, err = loader.Load(store, opts.External)
		if err != nil {
			return reconciler.Result{}, err
		}
	}
	prefixes = append(prefixes, opts.Prefixes...)

	rec := reconciler.New(reconciler.Options{Prefixes: prefixes, Link: opts.Link}, l.logger)
	res, err := l.Inject(cachePath, store, rec)
	if err != nil {
		return res, err
	}

	output := opts.Output
	if output == "" {
		output = opts.Input
	}
	if err := needs.SaveFile(output, doc, store); err != nil {
		return res, fmt.Errorf("failed to save linked needs: %w", err)
	}
	l.logger.Debug("needs file written", "path", output, "needs", store.Len())
	return res, nil
}
