package grammar

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cligram"
)

// Find walks path's "/"-separated components starting from n.
// Absolute paths (leading "/") resolve from the owning grammar's root;
// relative paths resolve within n's subtree. It fails with
// ErrInvalidNodePath if any component is absent.
func (n *Node) Find(path string) (*Node, error) {
	cur := n
	rest := path
	if strings.HasPrefix(path, "/") {
		if n.gram == nil {
			return nil, fmt.Errorf("%w: %q: node not attached to a grammar", cligram.ErrInvalidNodePath, path)
		}
		cur = n.gram.Node
		rest = strings.TrimPrefix(path, "/")
	}
	for _, comp := range strings.Split(rest, "/") {
		if comp == "" || comp == "." {
			continue
		}
		if comp == ".." {
			if cur.parent == nil {
				return nil, fmt.Errorf("%w: %q: above root", cligram.ErrInvalidNodePath, path)
			}
			cur = cur.parent
			continue
		}
		next, ok := cur.childrenByName[comp]
		if !ok {
			return nil, fmt.Errorf("%w: %q missing under %q", cligram.ErrInvalidNodePath, comp, cur.Path())
		}
		cur = next
	}
	return cur, nil
}
