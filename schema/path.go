package schema

import "path/filepath"

// Path is a string scalar with filesystem-path intent. It is a
// built-in spec kind, so fields of this type need no registration.
type Path string

func (p Path) String() string {
	return string(p)
}

func (p Path) IsAbs() bool {
	return filepath.IsAbs(string(p))
}

func (p Path) Join(elems ...string) Path {
	return Path(filepath.Join(append([]string{string(p)}, elems...)...))
}
