package protocol

import "strings"

// Scheme is the ref scheme prefix. A ref is canonical once it carries it;
// bare names are never sent on the wire.
const Scheme = "bl://"

// ResolveRef normalizes a user-supplied name into a fully qualified ref.
// Inputs that already carry the scheme pass through unchanged; anything else
// is addressed as a cell.
func ResolveRef(input string) string {
	if strings.HasPrefix(input, Scheme) {
		return input
	}
	return Scheme + "/cell/" + input
}

// FoldRef builds a fold ref over the given source names. Each source is
// resolved independently and the joined list rides in the sources query
// parameter. Sources are not URL-escaped: fully qualified refs must pass
// through verbatim, commas and embedded queries included.
func FoldRef(foldKind string, sources []string) string {
	resolved := make([]string, 0, len(sources))
	for _, src := range sources {
		resolved = append(resolved, ResolveRef(src))
	}
	return Scheme + "/fold/" + foldKind + "?sources=" + strings.Join(resolved, ",")
}
