package domain

import "go.trai.ch/zerr"

// Resolvable is an entry of a target's file list. It is either a concrete path or a
// deferred callable producing one. A deferred value is resolved at most once; later
// calls return the cached result.
type Resolvable struct {
	path     string
	fn       func() (string, error)
	resolved bool
}

// Path returns a Resolvable holding the concrete path p.
func Path(p string) Resolvable {
	return Resolvable{path: p, resolved: true}
}

// Paths converts concrete paths into Resolvables.
func Paths(ps ...string) []Resolvable {
	res := make([]Resolvable, len(ps))
	for i, p := range ps {
		res[i] = Path(p)
	}
	return res
}

// Deferred returns a Resolvable whose path is produced by fn when first resolved.
func Deferred(fn func() (string, error)) Resolvable {
	return Resolvable{fn: fn}
}

// IsConcrete reports whether the path is already known.
func (r *Resolvable) IsConcrete() bool {
	return r.resolved
}

// Resolve returns the path, calling the deferred function on first use.
func (r *Resolvable) Resolve() (string, error) {
	if r.resolved {
		return r.path, nil
	}
	p, err := r.fn()
	if err != nil {
		return "", zerr.Wrap(err, ErrDeferredResolveFailed.Error())
	}
	r.path = p
	r.resolved = true
	r.fn = nil
	return p, nil
}

// ResolveAll resolves every entry of rs in order.
func ResolveAll(rs []Resolvable) ([]string, error) {
	out := make([]string, 0, len(rs))
	for i := range rs {
		p, err := rs[i].Resolve()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
