package renderer

import (
	"bytes"
	"slices"

	"github.com/etnz/allocation"
	md "github.com/nao1215/markdown"
)

// AllocationMarkdown renders the allocation tree: one table per asset class with sub-classes,
// percentages relative to that class.
func AllocationMarkdown(root *allocation.AllocationNode) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Asset Allocation")
	doc.PlainText("Total: " + md.Bold(dollars(root.Value)))

	root.Walk(func(n *allocation.AllocationNode, _ int) {
		if n.IsLeaf() {
			return
		}
		doc.H2(n.Name)
		table := md.TableSet{Header: []string{"Class", "Actual", "Desired", "Value", "Difference"}}
		for _, c := range n.Children {
			table.Rows = append(table.Rows, []string{
				c.Name,
				c.ActualPercentOfParent().String(),
				c.DesiredPercentOfParent().String(),
				dollars(c.Value),
				delta(c.Difference),
			})
		}
		doc.Table(table)
	})
	return doc.String()
}

// CompactMarkdown renders the allocation tree in a single table, one row per leaf class. Each
// level of the tree takes three columns (class, actual and desired percentage of its parent),
// and the last four columns are those of the leaf relative to the whole portfolio.
func CompactMarkdown(root *allocation.AllocationNode) string {
	depth := height(root)
	header := []string{}
	for range depth {
		header = append(header, "Class", "A%", "D%")
	}
	header = append(header, "Actual", "Desired", "Value", "Difference")

	leaf := func(cells []string, n *allocation.AllocationNode) []string {
		for len(cells) < 3*depth {
			cells = append(cells, "")
		}
		return append(cells, n.ActualPercent().String(), n.DesiredPercent().String(), dollars(n.Value), delta(n.Difference))
	}

	var rows [][]string
	var visit func(n *allocation.AllocationNode, prefix []string)
	visit = func(n *allocation.AllocationNode, prefix []string) {
		for i, c := range n.Children {
			cells := slices.Clone(prefix)
			if i > 0 {
				cells = make([]string, len(prefix))
			}
			cells = append(cells, c.Name, whole(c.ActualPercentOfParent()), whole(c.DesiredPercentOfParent()))
			if c.IsLeaf() {
				rows = append(rows, leaf(cells, c))
				continue
			}
			visit(c, cells)
		}
	}
	if root.IsLeaf() {
		header = []string{"Class", "Actual", "Desired", "Value", "Difference"}
		rows = [][]string{leaf([]string{root.Name}, root)}
	} else {
		visit(root, nil)
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Asset Allocation")
	doc.Table(md.TableSet{Header: header, Rows: rows})
	return doc.String()
}

// height returns the number of levels below n.
func height(n *allocation.AllocationNode) int {
	h := 0
	for _, c := range n.Children {
		h = max(h, 1+height(c))
	}
	return h
}

// ClassesMarkdown renders the allocation across a cut of the tree, as returned by
// ComputeAllocationForSubset.
func ClassesMarkdown(root *allocation.AllocationNode) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Asset Allocation")
	table := md.TableSet{Header: []string{"Class", "Actual", "Desired", "Value", "Difference"}}
	for _, c := range root.Children {
		table.Rows = append(table.Rows, []string{
			c.Name,
			c.ActualPercent().String(),
			c.DesiredPercent().String(),
			dollars(c.Value),
			delta(c.Difference),
		})
	}
	doc.Table(table)
	return doc.String()
}
