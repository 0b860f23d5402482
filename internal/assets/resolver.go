package assets

import "errors"

// Resolver looks a style up in an optional directory first and falls back to
// the embedded styles only when the directory does not have it. Read and
// validation errors from the directory are returned as is.
type Resolver struct {
	dir *Dir
}

var _ Loader = (*Resolver)(nil)

// NewResolver builds a resolver. An empty dir means embedded styles only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{}
	if dir != "" {
		d, err := NewDir(dir)
		if err != nil {
			return nil, err
		}
		r.dir = d
	}
	return r, nil
}

func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.dir != nil {
		css, err := r.dir.LoadStyle(name)
		if !errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrInvalidStyleName) {
			return css, err
		}
	}
	return Embedded{}.LoadStyle(name)
}
