package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrThemeFileNotFound indicates the requested theme file does not exist.
	ErrThemeFileNotFound = errors.New("theme file not found")

	// ErrInvalidAssetName indicates the theme file name is empty, absolute,
	// or contains backslashes or traversal segments.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath indicates the configured theme directory is not a valid directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrAssetWrite indicates an I/O error occurred while writing an asset.
	ErrAssetWrite = errors.New("failed to write asset")

	// ErrPathTraversal indicates an attempt to access files outside the base path.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrAssetNameCollision indicates two assets resolve to the same file name.
	ErrAssetNameCollision = errors.New("asset name collision")

	// ErrPathEncoding indicates an asset path that is not valid UTF-8.
	ErrPathEncoding = errors.New("asset path is not valid UTF-8")

	// ErrCatalogHashed indicates Hash was called twice on the same catalog.
	ErrCatalogHashed = errors.New("asset catalog already hashed")

	// ErrCatalogConsumed indicates the catalog was already written.
	ErrCatalogConsumed = errors.New("asset catalog already written")
)
