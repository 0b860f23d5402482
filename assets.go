package mdpress

import "github.com/alnah/go-mdpress/internal/assets"

// HouseStyle is the style every document starts from. Other styles are
// layered on top of it.
const HouseStyle = assets.HouseStyleName

// AssetLoader returns the CSS of a named style, or an error matching
// ErrStyleNotFound. Pass one to WithAssetLoader to serve styles from
// somewhere other than disk.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
}

// AssetLoaderFunc adapts a function to AssetLoader.
type AssetLoaderFunc func(name string) (string, error)

func (f AssetLoaderFunc) LoadStyle(name string) (string, error) { return f(name) }

// NewAssetLoader serves {basePath}/styles/{name}.css, falling back to the
// built-in styles for names the directory lacks. An empty basePath serves
// the built-in styles only. A basePath that is not a readable directory
// fails with ErrInvalidAssetPath.
func NewAssetLoader(basePath string) (AssetLoader, error) {
	r, err := assets.NewResolver(basePath)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// StyleNames lists the built-in styles, sorted.
func StyleNames() []string {
	return assets.StyleNames()
}
