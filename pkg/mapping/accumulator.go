package mapping

import (
	"sort"
)

type set map[string]struct{}

func (s set) add(v string) {
	s[v] = struct{}{}
}

func (s set) sorted() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// accumulator holds the state of a mapping build.
//
// It is only ever written by a single goroutine.
type accumulator struct {
	checksumPaths map[string]set // checksum -> paths
	pathOwners    map[string]set // path -> owner identifiers
	skip          set            // paths already mapped before the tree walk
}

func newAccumulator() *accumulator {
	return &accumulator{
		checksumPaths: make(map[string]set),
		pathOwners:    make(map[string]set),
		skip:          make(set),
	}
}

func (a *accumulator) addPath(checksum, pth string) {
	paths, ok := a.checksumPaths[checksum]
	if !ok {
		paths = make(set)
		a.checksumPaths[checksum] = paths
	}
	paths.add(pth)
}

func (a *accumulator) hasChecksum(checksum string) bool {
	_, ok := a.checksumPaths[checksum]
	return ok
}

func (a *accumulator) addOwner(pth, owner string) {
	owners, ok := a.pathOwners[pth]
	if !ok {
		owners = make(set)
		a.pathOwners[pth] = owners
	}
	owners.add(owner)
}

// claim of a path by some owner, resolved to its content object
type claim struct {
	checksum string
	path     string
}

// shard collects the claims of a single package
type shard struct {
	owner  string
	claims []claim
}

func (a *accumulator) merge(s shard) {
	for _, c := range s.claims {
		a.addPath(c.checksum, c.path)
		a.addOwner(c.path, s.owner)
	}
}

// resolve assigns an owner to every content object.
//
// Paths are visited in ascending order: the first path with an owner wins,
// and the smallest of its owners is chosen.
func (a *accumulator) resolve(unpackaged string) map[string]string {
	mapping := make(map[string]string, len(a.checksumPaths))

	for checksum, paths := range a.checksumPaths {
		owner := unpackaged
		for _, pth := range paths.sorted() {
			owners := a.pathOwners[pth]
			if len(owners) == 0 {
				continue
			}
			owner = owners.sorted()[0]
			break
		}
		mapping[checksum] = owner
	}

	return mapping
}

func (a *accumulator) duplicates() map[string][]string {
	result := make(map[string][]string)
	for checksum, paths := range a.checksumPaths {
		if len(paths) > 1 {
			result[checksum] = paths.sorted()
		}
	}
	return result
}

func (a *accumulator) multipleOwners() map[string][]string {
	result := make(map[string][]string)
	for pth, owners := range a.pathOwners {
		if len(owners) > 1 {
			result[pth] = owners.sorted()
		}
	}
	return result
}
