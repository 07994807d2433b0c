// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/reptor/reptor/internal/issue"
	"github.com/reptor/reptor/internal/plugin"
	"github.com/reptor/reptor/pkg/types"
)

type (
	// Option configures Discover.
	Option func(*options)

	options struct {
		logger    *log.Logger
		flagProbe func() *pflag.FlagSet
	}

	// Result is the active module set.
	Result struct {
		// Descriptors are the live modules sorted by name.
		Descriptors []*plugin.Descriptor
		// Groups partitions Descriptors by capability in plugin.GroupOrder,
		// empty groups omitted.
		Groups []plugin.Group
		// Diagnostics lists everything skipped or overridden, in load order.
		Diagnostics []Diagnostic

		byName map[string]*plugin.Descriptor
	}
)

var _ plugin.Catalog = (*Result)(nil)

// WithLogger sets the logger diagnostics are reported to. Errors are logged
// at warn level and warnings at debug level.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFlagProbe supplies a constructor for a flag set already holding the
// global flags. Each candidate declares its flags on a fresh probe set, so
// a module reusing a global flag name or shorthand is rejected at discovery
// instead of panicking when the command tree is built.
func WithFlagProbe(fn func() *pflag.FlagSet) Option {
	return func(o *options) { o.flagProbe = fn }
}

// Discover loads every location and resolves name collisions. Candidates are
// loaded concurrently; diagnostics and collisions are reported in candidate
// order. It only fails when ctx is canceled.
func Discover(ctx context.Context, locations []Location, opts ...Option) (*Result, error) {
	o := options{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.flagProbe == nil {
		o.flagProbe = defaultFlagProbe
	}

	res := &Result{byName: make(map[string]*plugin.Descriptor)}

	var candidates []candidate
	for i, loc := range locations {
		if loc.Registry != nil {
			candidates = append(candidates, registryCandidates(loc.Registry, i)...)
			continue
		}
		found, diag := dirCandidates(loc, i)
		if diag != nil {
			res.addDiagnostic(o.logger, *diag)
		}
		candidates = append(candidates, found...)
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Or(
			cmp.Compare(a.provenance, b.provenance),
			cmp.Compare(a.order, b.order),
			strings.Compare(a.key, b.key),
		)
	})

	results, err := loadAll(ctx, candidates, o)
	if err != nil {
		return nil, err
	}

	for _, l := range results {
		for _, diag := range l.diags {
			res.addDiagnostic(o.logger, diag)
		}
		d := l.descriptor
		if d == nil {
			continue
		}
		if prev, ok := res.byName[d.Name]; ok {
			d.Overwrites = prev
			res.addDiagnostic(o.logger, warningDiagnostic(CodeOverridden, d.Name, d.Path, issue.ModuleOverriddenId,
				"%s module %q overrides %s module from %s", d.Provenance, d.Name, prev.Provenance, prev.Path))
		}
		res.byName[d.Name] = d
	}

	res.Descriptors = slices.SortedFunc(maps.Values(res.byName), func(a, b *plugin.Descriptor) int {
		return strings.Compare(a.Name, b.Name)
	})
	res.Groups = groupDescriptors(res.Descriptors)
	return res, nil
}

// loaded is the outcome of loading one candidate.
type loaded struct {
	descriptor *plugin.Descriptor
	diags      []Diagnostic
}

// loadAll loads the candidates concurrently. Results keep candidate order so
// collision resolution does not depend on scheduling.
func loadAll(ctx context.Context, candidates []candidate, o options) ([]loaded, error) {
	out := make([]loaded, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = loadCandidate(c, o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("module discovery canceled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("module discovery canceled: %w", err)
	}
	return out, nil
}

// loadCandidate loads and validates one candidate. A candidate that must be
// left out has a nil descriptor and an error diagnostic. A panic in module
// code is contained here.
func loadCandidate(c candidate, o options) (res loaded) {
	defer func() {
		if rec := recover(); rec != nil {
			res = loaded{diags: []Diagnostic{errorDiagnostic(CodePanic, c.key, c.path, issue.ModuleLoadFailedId,
				fmt.Errorf("%v", rec), "module panicked while loading")}}
		}
	}()

	loader, err := c.load()
	if err != nil {
		code := CodeLoadFailed
		if errors.Is(err, plugin.ErrNoConstructor) {
			code = CodeNoConstructor
		}
		return loaded{diags: []Diagnostic{errorDiagnostic(code, c.key, c.path, issue.ModuleLoadFailedId, err,
			"module failed to load")}}
	}

	name := types.ModuleNameFromType(loader.TypeName())
	if err := name.Validate(); err != nil {
		return loaded{diags: []Diagnostic{errorDiagnostic(CodeInvalidName, name.String(), c.path, issue.ModuleLoadFailedId, err,
			"module declares an unusable name")}}
	}

	if err := probeFlags(loader, o.flagProbe()); err != nil {
		return loaded{diags: []Diagnostic{errorDiagnostic(CodeFlagConflict, name.String(), c.path, issue.FlagConflictId, err,
			"module %q declares conflicting flags", name)}}
	}

	d := plugin.NewDescriptor(loader, c.provenance, c.path)
	res = loaded{descriptor: d}
	if strings.TrimSpace(loader.Doc()) == "" {
		res.diags = append(res.diags, warningDiagnostic(CodeMissingDocs, d.Name, d.Path, 0,
			"module %q has no documentation", d.Name))
	}
	return res
}

// probeFlags runs AddArguments on fs and converts the panic pflag raises on
// a redefined flag into an error. Exclusive flag groups must name flags the
// module declared.
func probeFlags(l plugin.Loader, fs *pflag.FlagSet) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%v", rec)
		}
	}()
	global := make(map[string]bool)
	fs.VisitAll(func(f *pflag.Flag) { global[f.Name] = true })

	l.AddArguments(fs)

	g, ok := l.(plugin.FlagGrouper)
	if !ok {
		return nil
	}
	for _, group := range g.ExclusiveFlagGroups() {
		for _, name := range group {
			if fs.Lookup(name) == nil || global[name] {
				return fmt.Errorf("exclusive flag group %v names undeclared flag %q", group, name)
			}
		}
	}
	return nil
}

func defaultFlagProbe() *pflag.FlagSet {
	fs := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	fs.BoolP("help", "h", false, "")
	return fs
}

func (r *Result) addDiagnostic(logger *log.Logger, d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	if logger == nil {
		return
	}
	if d.Severity == SeverityError {
		logger.Warn(d.Message, "module", d.Module, "path", d.Path, "err", d.Cause)
		return
	}
	logger.Debug(d.Message, "module", d.Module, "path", d.Path)
}

func groupDescriptors(descriptors []*plugin.Descriptor) []plugin.Group {
	var groups []plugin.Group
	for _, c := range plugin.GroupOrder {
		var members []*plugin.Descriptor
		for _, d := range descriptors {
			if d.Capability.Normalize() == c {
				members = append(members, d)
			}
		}
		if len(members) > 0 {
			groups = append(groups, plugin.Group{Capability: c, Descriptors: members})
		}
	}
	return groups
}

// All implements plugin.Catalog.
func (r *Result) All() []*plugin.Descriptor {
	return slices.Clone(r.Descriptors)
}

// Lookup implements plugin.Catalog.
func (r *Result) Lookup(name string) (*plugin.Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Grouped implements plugin.Catalog.
func (r *Result) Grouped() []plugin.Group {
	return slices.Clone(r.Groups)
}

// Errors returns the error-severity diagnostics.
func (r *Result) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}
