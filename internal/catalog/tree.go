// Package catalog turns the flat category table into the shapes the
// storefront sidebar and the admin tree-table render.
package catalog

import "petmarket/internal/domain"

// Node is a category with its resolved children.
type Node struct {
	domain.Category
	Children []*Node `json:"children,omitempty"`
}

// FlatNode is a pre-order tree entry annotated with its depth, for
// indentation in the admin tree-table.
type FlatNode struct {
	domain.Category
	Depth int `json:"depth"`
}

// parentOf resolves the parent reference of a category. Historic rows may
// carry the parent as an expanded object on the wire; by the time rows reach
// this package they are normalized to ids, so only the pointer form remains.
func parentOf(c domain.Category) string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// ChildrenOf returns exactly the categories whose parent resolves to parentID,
// in input order.
func ChildrenOf(all []domain.Category, parentID string) []domain.Category {
	var out []domain.Category
	for _, c := range all {
		if parentOf(c) == parentID {
			out = append(out, c)
		}
	}
	return out
}

// RootBySlug finds the root (parentless) category with the given slug.
func RootBySlug(all []domain.Category, slug string) (domain.Category, bool) {
	for _, c := range all {
		if parentOf(c) == "" && c.Slug == slug {
			return c, true
		}
	}
	return domain.Category{}, false
}

// Build materializes the forest. Roots are categories without a parent plus
// any orphan whose parent id does not exist in the input.
func Build(all []domain.Category) []*Node {
	ids := make(map[string]bool, len(all))
	for _, c := range all {
		ids[c.ID] = true
	}

	byParent := make(map[string][]domain.Category)
	var roots []domain.Category
	for _, c := range all {
		p := parentOf(c)
		if p == "" || !ids[p] {
			roots = append(roots, c)
			continue
		}
		byParent[p] = append(byParent[p], c)
	}

	visited := make(map[string]bool, len(all))
	var build func(c domain.Category) *Node
	build = func(c domain.Category) *Node {
		// A parent cycle would otherwise recurse forever.
		if visited[c.ID] {
			return nil
		}
		visited[c.ID] = true
		n := &Node{Category: c}
		for _, child := range byParent[c.ID] {
			if cn := build(child); cn != nil {
				n.Children = append(n.Children, cn)
			}
		}
		return n
	}

	var out []*Node
	for _, r := range roots {
		if n := build(r); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Flatten produces the depth-annotated pre-order ordering of the forest.
func Flatten(all []domain.Category) []FlatNode {
	var out []FlatNode
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		out = append(out, FlatNode{Category: n.Category, Depth: depth})
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range Build(all) {
		walk(r, 0)
	}
	return out
}

// SubtreeIDs returns rootID and the ids of every descendant of rootID.
func SubtreeIDs(all []domain.Category, rootID string) []string {
	byParent := make(map[string][]domain.Category)
	for _, c := range all {
		if p := parentOf(c); p != "" {
			byParent[p] = append(byParent[p], c)
		}
	}

	seen := map[string]bool{rootID: true}
	out := []string{rootID}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range byParent[id] {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c.ID)
			queue = append(queue, c.ID)
		}
	}
	return out
}
