package grammar

import (
	"path"
	"strings"
)

// resolveAliasTargets implements spec.md §4.3: normalize the target
// against the alias's own path (its own name included, exactly as
// Path() reports it — so a target of ".." cancels the alias's own
// path component and lands on the alias's parent, not on the parent's
// parent), then, if that names an existing node, yield it alone;
// otherwise treat the basename as a glob and yield the matching
// (followed) children of the named directory node.
func (n *Node) resolveAliasTargets(ctx Ctx) []*Node {
	if n.gram == nil {
		return nil
	}
	normalized := normalizePath(n.Path(), n.aliasTarget)
	if target, err := n.gram.Node.Find(normalized); err == nil {
		return []*Node{target}
	}
	dir, glob := splitDirBase(normalized)
	dirNode, err := n.gram.Node.Find(dir)
	if err != nil {
		tracer().Debugf("alias %q: directory %q not found: %v", n.Path(), dir, err)
		return nil
	}
	var out []*Node
	for _, c := range dirNode.Children(ctx, true) {
		if ok, _ := path.Match(glob, c.Name()); ok {
			out = append(out, c)
		}
	}
	return out
}

// normalizePath resolves target (absolute or relative, with "." and
// "..") against base, a "/"-rooted directory path, and returns an
// absolute "/"-rooted path.
func normalizePath(base, target string) string {
	var comps []string
	if !strings.HasPrefix(target, "/") {
		comps = splitComponents(base)
	}
	for _, c := range strings.Split(target, "/") {
		switch c {
		case "", ".":
			// skip
		case "..":
			if len(comps) > 0 {
				comps = comps[:len(comps)-1]
			}
		default:
			comps = append(comps, c)
		}
	}
	return "/" + strings.Join(comps, "/")
}

func splitComponents(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// splitDirBase splits an absolute, normalized path into its directory
// and basename (which may be a glob pattern).
func splitDirBase(p string) (dir, base string) {
	comps := splitComponents(p)
	if len(comps) == 0 {
		return "/", ""
	}
	base = comps[len(comps)-1]
	dir = "/" + strings.Join(comps[:len(comps)-1], "/")
	return dir, base
}
