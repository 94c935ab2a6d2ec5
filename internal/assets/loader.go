package assets

// ThemeLoader defines the contract for loading theme files.
// Implementations may load from embedded assets, filesystem, etc.
type ThemeLoader interface {
	// LoadFile loads a theme file by its slash-separated name, e.g.
	// "css/general.css".
	// Returns ErrThemeFileNotFound if the file doesn't exist.
	// Returns ErrInvalidAssetName if the name is unsafe.
	LoadFile(name string) ([]byte, error)
}
