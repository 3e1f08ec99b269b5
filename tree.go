package networth

import (
	"slices"
	"strings"
)

// TreeBalanceNode is one node of the account hierarchy. Its balance is the
// sum of its own postings and of all its descendants.
type TreeBalanceNode struct {
	Balance  AccountBalance
	Children map[string]*TreeBalanceNode
}

func newTreeBalanceNode() *TreeBalanceNode {
	return &TreeBalanceNode{
		Balance:  make(AccountBalance),
		Children: make(map[string]*TreeBalanceNode),
	}
}

// NewTreeBalance builds the account tree of a flat balance. Every account
// balance is added to each node on its path, from the root to the account
// itself.
func NewTreeBalance(b Balance) *TreeBalanceNode {
	root := newTreeBalanceNode()
	for account, ab := range b {
		node := root
		node.Balance.Add(ab)
		for _, segment := range strings.Split(account, AccountSeparator) {
			child, ok := node.Children[segment]
			if !ok {
				child = newTreeBalanceNode()
				node.Children[segment] = child
			}
			child.Balance.Add(ab)
			node = child
		}
	}
	return root
}

// TreeNode is a node of the account tree prepared for display.
type TreeNode struct {
	Name  string
	Value Value
	// MainCommodity is the formatted value.
	MainCommodity string
	// ForeignCommodities lists the held amounts when the balance is not
	// purely in the main commodity, empty otherwise.
	ForeignCommodities string
	Children           []*TreeNode
}

// Positive reports whether the value is above zero.
func (n *TreeNode) Positive() bool { return n.Value.Amount.IsPositive() }

// Display converts the tree for display, valuing every node with c.
//
// Children that value to zero and have no children left are dropped, the
// others are sorted by name. Children whose value is unknown are kept. A
// node left with a single child of the same value takes over that child:
// "Assets" with only "Liquid" becomes "Assets:Liquid" and shows what
// "Liquid" holds. The root itself is never merged.
func (n *TreeBalanceNode) Display(name string, c Calculator) *TreeNode {
	return n.display(name, c, true)
}

func (n *TreeBalanceNode) display(name string, c Calculator, root bool) *TreeNode {
	v := c.Value(n.Balance)
	node := &TreeNode{
		Name:               name,
		Value:              v,
		MainCommodity:      FormatMoney(v.Amount, c.Commodity),
		ForeignCommodities: foreignCommodities(n.Balance, c.Commodity),
	}

	for childName, child := range n.Children {
		node.Children = append(node.Children, child.display(childName, c, false))
	}

	// remove empty (with 0 value) children; unknown values stay visible
	node.Children = slices.DeleteFunc(node.Children, func(child *TreeNode) bool {
		return child.Value.Known && child.Value.Amount.IsZero() && len(child.Children) == 0
	})

	slices.SortFunc(node.Children, func(a, b *TreeNode) int {
		return strings.Compare(a.Name, b.Name)
	})

	// if there is only one child, merge it
	if !root && len(node.Children) == 1 && node.Children[0].Value.Equal(v) {
		child := node.Children[0]
		node.Name = name + AccountSeparator + child.Name
		node.ForeignCommodities = child.ForeignCommodities
		node.Children = child.Children
	}

	return node
}

func foreignCommodities(b AccountBalance, main string) string {
	if len(b) == 0 {
		return ""
	}
	if _, ok := b[main]; ok && len(b) == 1 {
		return ""
	}
	return b.String()
}
