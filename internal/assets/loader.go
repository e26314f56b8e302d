package assets

// AssetLoader defines the contract for loading CSS styles and exam templates.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplateSet loads a template set by name. The name identifies a
	// directory containing exam.md.tmpl and key.md.tmpl.
	// Returns ErrTemplateSetNotFound if the template set doesn't exist.
	// Returns ErrIncompleteTemplateSet if one of the two templates is missing.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplateSet(name string) (*TemplateSet, error)
}
