package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-md2book/internal/fileutil"
)

// resourceDirective is the cross-reference syntax inside text assets.
var resourceDirective = regexp.MustCompile(`\{\{ resource "([^"]+)" \}\}`)

// Asset is one file of the catalog. The set of implementations is closed:
// *BuiltinAsset and *AdditionalAsset.
type Asset interface {
	// Name is the current logical file name, fingerprinted after Hash.
	Name() string
	setName(string)
}

// BuiltinAsset is a theme file held in memory.
type BuiltinAsset struct {
	Data     []byte
	Filename string
}

func (a *BuiltinAsset) Name() string     { return a.Filename }
func (a *BuiltinAsset) setName(n string) { a.Filename = n }

// AdditionalAsset is a user file read from disk when needed.
type AdditionalAsset struct {
	Source   string
	Filename string
}

func (a *AdditionalAsset) Name() string     { return a.Filename }
func (a *AdditionalAsset) setName(n string) { a.Filename = n }

// ResourceNames maps logical asset names to their fingerprinted names.
type ResourceNames map[string]string

// Lookup returns the final name for name, or name itself when the asset was
// not fingerprinted.
func (r ResourceNames) Lookup(name string) string {
	if final, ok := r[name]; ok {
		return final
	}
	return name
}

// CollectOptions configures Collect.
type CollectOptions struct {
	// Root is the directory additional asset paths are relative to.
	Root          string
	AdditionalCSS []string
	AdditionalJS  []string
	PrintEnabled  bool
	// HighlightCSS, when non-nil, is published as css/chroma.css.
	HighlightCSS []byte
	Logger       *slog.Logger
}

// Catalog runs the collect, hash and write phases over a fixed set of assets.
// Hash may run at most once and only before Write; Write may run once.
type Catalog struct {
	assets   []Asset
	names    ResourceNames
	known    map[string]bool
	hashed   bool
	consumed bool
	logger   *slog.Logger
}

// Collect builds the catalog: the theme's built-in files followed by the
// additional CSS and JS files, in that order.
func Collect(theme *Theme, opts CollectOptions) (*Catalog, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{
		names:  make(ResourceNames),
		known:  make(map[string]bool),
		logger: logger,
	}

	builtins := []struct {
		name string
		data []byte
	}{
		{BookJS, theme.BookJS},
		{GeneralCSS, theme.GeneralCSS},
		{ChromeCSS, theme.ChromeCSS},
		{PrintCSS, theme.PrintCSS},
		{VariablesCSS, theme.VariablesCSS},
		{FaviconPNG, theme.FaviconPNG},
		{FaviconSVG, theme.FaviconSVG},
		{HighlightCSS, theme.HighlightCSS},
		{TomorrowNightCSS, theme.TomorrowNightCSS},
		{AyuHighlightCSS, theme.AyuHighlightCSS},
		{HighlightJS, theme.HighlightJS},
		{ClipboardJS, theme.ClipboardJS},
	}
	for _, b := range builtins {
		if b.name == PrintCSS && !opts.PrintEnabled {
			continue
		}
		if err := c.add(&BuiltinAsset{Data: b.data, Filename: b.name}); err != nil {
			return nil, err
		}
	}
	if opts.HighlightCSS != nil {
		if err := c.add(&BuiltinAsset{Data: opts.HighlightCSS, Filename: ChromaCSS}); err != nil {
			return nil, err
		}
	}

	for _, rel := range append(append([]string{}, opts.AdditionalCSS...), opts.AdditionalJS...) {
		if !utf8.ValidString(rel) {
			return nil, fmt.Errorf("%w: %q", ErrPathEncoding, rel)
		}
		name := path.Clean(filepath.ToSlash(rel))
		if err := fileutil.ValidateRelPath(name); err != nil {
			return nil, fmt.Errorf("additional asset: %w", err)
		}
		asset := &AdditionalAsset{Source: filepath.Join(opts.Root, filepath.FromSlash(name)), Filename: name}
		if err := c.add(asset); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *Catalog) add(a Asset) error {
	if c.known[a.Name()] {
		return fmt.Errorf("%w: %q declared twice", ErrAssetNameCollision, a.Name())
	}
	c.known[a.Name()] = true
	c.assets = append(c.assets, a)
	return nil
}

// Assets returns the catalog entries in collection order.
func (c *Catalog) Assets() []Asset {
	return c.assets
}

// Hash renames every eligible asset to "<base>-<digest>.<ext>", where digest
// is the hex of the first 4 bytes of the SHA-256 of its content, and records
// the old to new mapping.
func (c *Catalog) Hash() error {
	if c.consumed {
		return ErrCatalogConsumed
	}
	if c.hashed {
		return ErrCatalogHashed
	}
	c.hashed = true

	final := make(map[string]string, len(c.assets))
	for _, a := range c.assets {
		old := a.Name()
		if !hashable(old) {
			final[old] = old
			continue
		}

		var digest string
		switch a := a.(type) {
		case *BuiltinAsset:
			digest = Digest(a.Data)
		case *AdditionalAsset:
			d, err := digestFile(a.Source)
			if err != nil {
				return err
			}
			digest = d
		}

		renamed := fingerprint(old, digest)
		if prev, ok := final[renamed]; ok && prev != old {
			return fmt.Errorf("%w: %q and %q both become %q", ErrAssetNameCollision, prev, old, renamed)
		}
		final[renamed] = old
		c.names[old] = renamed
		a.setName(renamed)
	}
	return nil
}

// Write writes every asset under dest exactly once and returns the name map.
// CSS and JS assets get their resource directives replaced by the path from
// their own location to the referenced asset; other assets are copied as is.
// The catalog cannot be used afterwards.
func (c *Catalog) Write(dest string) (ResourceNames, error) {
	if c.consumed {
		return nil, ErrCatalogConsumed
	}
	c.consumed = true

	for _, a := range c.assets {
		name := a.Name()
		c.logger.Debug("writing asset", "name", name)

		if isTextAsset(name) {
			data, err := c.content(a)
			if err != nil {
				return nil, err
			}
			if err := fileutil.WriteFile(dest, name, c.resolveDirectives(name, data)); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrAssetWrite, err)
			}
			continue
		}

		var err error
		switch a := a.(type) {
		case *BuiltinAsset:
			err = fileutil.WriteFile(dest, name, a.Data)
		case *AdditionalAsset:
			err = fileutil.CopyFile(dest, name, a.Source)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAssetWrite, err)
		}
	}

	names := make(ResourceNames, len(c.names))
	for k, v := range c.names {
		names[k] = v
	}
	c.assets = nil
	return names, nil
}

func (c *Catalog) content(a Asset) ([]byte, error) {
	switch a := a.(type) {
	case *BuiltinAsset:
		return a.Data, nil
	case *AdditionalAsset:
		data, err := os.ReadFile(a.Source) // #nosec G304 -- configured asset path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAssetRead, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported asset type %T", a)
	}
}

// resolveDirectives replaces {{ resource "x" }} in the asset written at name.
func (c *Catalog) resolveDirectives(name string, data []byte) []byte {
	prefix := fileutil.PathToRoot(name)
	return resourceDirective.ReplaceAllFunc(data, func(match []byte) []byte {
		ref := string(resourceDirective.FindSubmatch(match)[1])
		if !c.known[ref] {
			c.logger.Warn("reference to unknown resource", "asset", name, "resource", ref)
		}
		return []byte(prefix + c.names.Lookup(ref))
	})
}

// Digest returns the fingerprint of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:4])
}

func digestFile(p string) (string, error) {
	f, err := os.Open(p) // #nosec G304 -- configured asset path
	if err != nil {
		return "", fmt.Errorf("%w: open static file for hashing: %v", ErrAssetRead, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: read static file for hashing: %v", ErrAssetRead, err)
	}
	return hex.EncodeToString(h.Sum(nil)[:4]), nil
}

// splitName splits the base name of a logical file name at its first dot.
func splitName(name string) (dir, base, ext string, ok bool) {
	dir, file := path.Split(name)
	base, ext, ok = strings.Cut(file, ".")
	return dir, base, ext, ok
}

// hashable reports whether name gets fingerprinted. Names without a base or
// extension, text files and the legacy font directory keep their names.
func hashable(name string) bool {
	_, base, ext, ok := splitName(name)
	if !ok || base == "" || ext == "" {
		return false
	}
	if ext == "txt" || strings.HasSuffix(ext, ".txt") {
		return false
	}
	return !strings.HasPrefix(name, "FontAwesome/fonts/")
}

func fingerprint(name, digest string) string {
	dir, base, ext, _ := splitName(name)
	return dir + base + "-" + digest + "." + ext
}

func isTextAsset(name string) bool {
	return strings.HasSuffix(name, ".css") || strings.HasSuffix(name, ".js")
}
