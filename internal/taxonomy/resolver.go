// Package taxonomy walks rows against the finalized hierarchy and
// builds the taxonomy tree, the flat path list and the orphan list.
// The product counts are conserved: every node's count equals the sum
// of its children's counts plus the rows terminating at that node.
package taxonomy

import (
	"fmt"
	"sort"

	"pimprep/domain/analysis"
	"pimprep/domain/dataset"
)

// RootName is the name of the synthetic tree root.
const RootName = "Root"

// Result represents one taxonomy resolution pass.
type Result struct {
	Tree    *analysis.TaxonomyNode
	Paths   []analysis.TaxonomyPath
	Orphans []analysis.OrphanedRecord
}

// Resolve builds the taxonomy tree from the rows' values at the given
// taxonomy headers, in level order. A row with an empty value at any
// taxonomy header becomes an orphan naming each empty header and is
// excluded from tree statistics. Leaf nodes accumulate the property
// headers (non-taxonomy, non-UOM) with data among their rows.
func Resolve(ds *dataset.Dataset, taxonomyHeaders []string, propertyHeaders []string) Result {
	root := &analysis.TaxonomyNode{Name: RootName, Level: 0}
	res := Result{Tree: root}

	cols := make([]int, len(taxonomyHeaders))
	for i, h := range taxonomyHeaders {
		cols[i] = ds.ColumnIndex(h)
	}
	propCols := make([]int, len(propertyHeaders))
	for i, h := range propertyHeaders {
		propCols[i] = ds.ColumnIndex(h)
	}

	// properties are collected per leaf, keyed by the leaf node
	leafProps := make(map[*analysis.TaxonomyNode]map[string]bool)

	for row := 0; row < ds.RowCount(); row++ {
		values := make([]string, len(cols))
		var issues []string
		for i, col := range cols {
			v := ds.Cell(row, col)
			if dataset.IsEmptyCell(v) {
				issues = append(issues, fmt.Sprintf("missing hierarchy value for %q", taxonomyHeaders[i]))
			}
			values[i] = v
		}
		if len(issues) > 0 {
			res.Orphans = append(res.Orphans, analysis.OrphanedRecord{RowIndex: row, Issues: issues})
			continue
		}

		node := root
		root.ProductCount++
		for depth, v := range values {
			child := node.Child(v)
			if child == nil {
				child = &analysis.TaxonomyNode{Name: v, Level: depth + 1}
				node.Children = append(node.Children, child)
			}
			child.ProductCount++
			node = child
		}

		props := leafProps[node]
		if props == nil {
			props = make(map[string]bool)
			leafProps[node] = props
		}
		for i, col := range propCols {
			if !dataset.IsEmptyCell(ds.Cell(row, col)) {
				props[propertyHeaders[i]] = true
			}
		}
	}

	res.Paths = flattenPaths(root, nil, leafProps)
	return res
}

// flattenPaths walks the tree top-down and emits one TaxonomyPath per
// populated root-to-leaf path, in insertion order.
func flattenPaths(node *analysis.TaxonomyNode, prefix []string, leafProps map[*analysis.TaxonomyNode]map[string]bool) []analysis.TaxonomyPath {
	if len(node.Children) == 0 {
		if node.Level == 0 {
			return nil // empty tree: only the root exists
		}
		return []analysis.TaxonomyPath{{
			Path:         append([]string(nil), prefix...),
			ProductCount: node.ProductCount,
			Properties:   sortedKeys(leafProps[node]),
		}}
	}
	var out []analysis.TaxonomyPath
	for _, child := range node.Children {
		out = append(out, flattenPaths(child, append(prefix, child.Name), leafProps)...)
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TerminatingRows returns the rows terminating exactly at a node: its
// product count minus the sum of its children's counts. Nonzero only
// when the hierarchy is shallower than the tree's configured depth.
func TerminatingRows(n *analysis.TaxonomyNode) int {
	sum := 0
	for _, c := range n.Children {
		sum += c.ProductCount
	}
	return n.ProductCount - sum
}
