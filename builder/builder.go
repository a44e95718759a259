// Package builder renders every template spec against every palette and
// writes the outputs, patching terminal profiles where a spec asks for it.
package builder

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"base16builder/logger"
	"base16builder/model"
	"base16builder/palette"
	"base16builder/profile"
	"base16builder/render"
	"base16builder/storage"
	"base16builder/theme"
)

// Options tune a build.
type Options struct {
	// ProfileOverride, when set, replaces the base profile of every
	// patching spec.
	ProfileOverride string

	// Progress is called after each output is written with the running
	// count and the output path relative to the sources root.
	Progress func(built int, output string)
}

// Result summarises a build.
type Result struct {
	Built   int
	Failed  int
	Skipped int
	Outputs []string

	// Err aggregates the per-unit failures.
	Err error
}

func (r *Result) fail(ctx context.Context, err *model.UnitError) {
	r.Failed++
	r.Err = multierr.Append(r.Err, err)
	logger.L(ctx).Error("build unit failed", zap.String("scheme", err.Scheme), zap.Error(err.Err))
}

// Builder runs the build pipeline over a catalog.
type Builder struct {
	catalog *theme.Catalog
	store   *storage.Store
	patcher *profile.Patcher
	opts    Options
}

// New creates a Builder. enc may be nil when no binary conversion is
// available; patching specs are then skipped.
func New(catalog *theme.Catalog, store *storage.Store, enc profile.Encoder, opts Options) *Builder {
	b := &Builder{catalog: catalog, store: store, opts: opts}
	if enc != nil {
		b.patcher = profile.NewPatcher(enc)
	}
	return b
}

type scheme struct {
	file    string
	palette model.Palette
}

// Run builds every (template spec, palette) pair in order: template
// sources, specs in config order, scheme sources, scheme files in lexical
// order. The returned error is fatal for the whole run; failures of single
// units are collected in Result.Err and the build carries on.
func (b *Builder) Run(ctx context.Context) (Result, error) {
	var res Result
	if b.opts.ProfileOverride != "" {
		if b.patcher == nil {
			return res, fmt.Errorf("%w: profile patching needs a binary plist encoder", model.ErrEnvironmentUnsupported)
		}
		if err := profile.CheckBase(b.opts.ProfileOverride); err != nil {
			return res, err
		}
	}

	templates, err := b.catalog.TemplateSources()
	if err != nil {
		return res, err
	}
	schemes, err := b.loadSchemes(ctx, &res)
	if err != nil {
		return res, err
	}

	for _, src := range templates {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		specs, err := b.catalog.TemplateSpecs(src.Name)
		if err != nil {
			res.fail(ctx, &model.UnitError{Template: src.Name, Err: err})
			continue
		}
		for _, spec := range specs {
			unit := src.Name + "/" + spec.Name
			if err := b.buildSpec(logger.With(ctx, zap.String("template", unit)), unit, spec, schemes, &res); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (b *Builder) loadSchemes(ctx context.Context, res *Result) ([]scheme, error) {
	sources, err := b.catalog.SchemeSources()
	if err != nil {
		return nil, err
	}
	var schemes []scheme
	for _, src := range sources {
		files, err := b.catalog.SchemeFiles(src.Name)
		if err != nil {
			res.fail(ctx, &model.UnitError{Template: "schemes", Scheme: src.Name, Err: err})
			continue
		}
		for _, file := range files {
			p, err := b.catalog.LoadPalette(file)
			if err != nil {
				res.fail(ctx, &model.UnitError{Template: "schemes", Scheme: file, Err: err})
				continue
			}
			schemes = append(schemes, scheme{file: file, palette: p})
		}
	}
	return schemes, nil
}

// buildSpec renders one spec against all palettes. Only cancellation is
// returned; everything else is recorded on res.
func (b *Builder) buildSpec(ctx context.Context, unit string, spec model.TemplateFileSpec, schemes []scheme, res *Result) error {
	log := logger.L(ctx)

	var prof *profile.Profiles
	switch {
	case spec.PartialPatching():
		log.Warn("only one of colorTemplate and plistTemplate is set, building without profile patching")
	case spec.Patching() && b.patcher == nil:
		log.Warn("skipping, no binary plist encoder available")
		res.Skipped++
		return nil
	case spec.Patching():
		base := b.catalog.Abs(spec.BaseProfileTemplate)
		if b.opts.ProfileOverride != "" {
			base = b.opts.ProfileOverride
		}
		p, err := profile.Load(base, b.catalog.Abs(spec.ColorProfileTemplate))
		if err != nil {
			res.fail(ctx, &model.UnitError{Template: unit, Err: err})
			return nil
		}
		prof = p
	}

	tpl, err := render.ParseFile(b.catalog.Abs(spec.TemplatePath))
	if err != nil {
		res.fail(ctx, &model.UnitError{Template: unit, Err: err})
		return nil
	}
	log.Debug("parsed template", zap.String("path", tpl.Name()))

	removed, err := b.store.Clean(spec.OutputDir, spec.Prefix(), spec.Extension)
	if err != nil {
		res.fail(ctx, &model.UnitError{Template: unit, Err: err})
		return nil
	}
	if len(removed) > 0 {
		log.Debug("removed previous outputs", zap.Int("count", len(removed)))
	}

	for _, s := range schemes {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := []byte(tpl.Execute(palette.Variables(s.palette)))
		if prof != nil {
			out, err = b.patcher.Apply(ctx, prof, string(out))
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				res.fail(ctx, &model.UnitError{Template: unit, Scheme: s.file, Err: err})
				continue
			}
		}
		name := spec.FileName(s.palette.Slug)
		if _, err := b.store.Write(spec.OutputDir, name, out); err != nil {
			res.fail(ctx, &model.UnitError{Template: unit, Scheme: s.file, Err: err})
			continue
		}

		rel := filepath.Join(spec.OutputDir, name)
		res.Built++
		res.Outputs = append(res.Outputs, rel)
		log.Info("built", zap.String("output", rel), zap.Int("built", res.Built))
		if b.opts.Progress != nil {
			b.opts.Progress(res.Built, rel)
		}
	}
	return nil
}
