package theme

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/multierr"
)

// Git runs git commands. Tests replace it.
var Git = func(ctx context.Context, args ...string) error {
	out, err := exec.CommandContext(ctx, "git", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("git %v: %w: %s", args, err, out)
	}
	return nil
}

// Update clones or pulls the source lists and then every scheme and
// template repository they name. Failures of individual repositories are
// collected; the remaining ones are still fetched.
func (c *Catalog) Update(ctx context.Context, progress func(name, dir string)) error {
	if progress == nil {
		progress = func(string, string) {}
	}
	sources, err := c.Sources()
	if err != nil {
		return err
	}
	var errs error
	for _, s := range sources {
		dir := filepath.Join("sources", s.Name)
		progress(s.Name, dir)
		errs = multierr.Append(errs, c.fetch(ctx, s.URL, dir))
	}

	if schemes, err := c.SchemeSources(); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		for _, s := range schemes {
			dir := filepath.Join(SchemesDir, s.Name)
			progress(s.Name, dir)
			errs = multierr.Append(errs, c.fetch(ctx, s.URL, dir))
		}
	}

	if templates, err := c.TemplateSources(); err != nil {
		errs = multierr.Append(errs, err)
	} else {
		for _, s := range templates {
			dir := filepath.Join(TemplatesDir, s.Name)
			progress(s.Name, dir)
			errs = multierr.Append(errs, c.fetch(ctx, s.URL, dir))
		}
	}
	return errs
}

func (c *Catalog) fetch(ctx context.Context, url, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := c.path(rel)
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		return Git(ctx, "-C", dir, "pull", "--ff-only")
	}
	if err := os.MkdirAll(filepath.Dir(dir), 0o755); err != nil {
		return err
	}
	return Git(ctx, "clone", "--depth", "1", url, dir)
}
