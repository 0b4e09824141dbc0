// Package budget applies discrete user actions to the budget tree.
//
// Apply is a pure function: one tagged action in, one tree out. Invalid or
// unrecognized input never raises; it yields the input tree unchanged (or the
// default template when no tree is provided). The interaction layer is
// responsible for building one explicit Action per user gesture, so the
// engine never has to guess which widget fired.
package budget

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"patrimoine/internal/core"
)

// Kind tags one discrete mutation of the budget tree.
type Kind string

const (
	KindDeleteCategory    Kind = "delete_category"
	KindDeleteSubcategory Kind = "delete_subcategory"
	KindAddSubcategory    Kind = "add_subcategory"
	KindAddCategory       Kind = "add_category"
	KindRenameCategory    Kind = "rename_category"
	KindRenameSubcategory Kind = "rename_subcategory"
	KindSetAmount         Kind = "set_amount"
)

// Action is one fully-specified user-triggered change. Unused fields stay
// empty; which fields matter depends on Kind.
type Action struct {
	Kind        Kind   `json:"kind"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
	NewName     string `json:"new_name,omitempty"`
	Value       string `json:"value,omitempty"`
}

// Names given to freshly created tree nodes.
const (
	newCategoryBase = "Catégorie"
	newItemBase     = "Nouveau poste"
)

// Apply executes one action against the tree and returns the resulting tree.
// The input is never mutated. A nil tree falls back to the default template;
// an unrecognized action kind leaves the tree unchanged. Note that an empty
// non-nil tree is a legitimate state, distinct from an absent one.
func Apply(tree *core.Budget, a Action) core.Budget {
	var b core.Budget
	if tree == nil {
		b = core.DefaultBudget()
	} else {
		b = *tree
	}
	switch a.Kind {
	case KindDeleteCategory:
		return deleteCategory(b.Clone(), a.Category)
	case KindDeleteSubcategory:
		return deleteSubcategory(b.Clone(), a.Category, a.Subcategory)
	case KindAddSubcategory:
		return addSubcategory(b.Clone(), a.Category)
	case KindAddCategory:
		return addCategory(b.Clone())
	case KindRenameCategory:
		return renameCategory(b.Clone(), a.Category, a.NewName)
	case KindRenameSubcategory:
		return renameSubcategory(b.Clone(), a.Category, a.Subcategory, a.NewName)
	case KindSetAmount:
		return setAmount(b.Clone(), a.Category, a.Subcategory, a.Value)
	}
	return b.Clone()
}

func deleteCategory(b core.Budget, cat string) core.Budget {
	i := b.CategoryIndex(cat)
	if i < 0 {
		return b
	}
	b.Categories = append(b.Categories[:i], b.Categories[i+1:]...)
	return b
}

// deleteSubcategory drops the item; a category left empty disappears with it.
func deleteSubcategory(b core.Budget, cat, sub string) core.Budget {
	i := b.CategoryIndex(cat)
	if i < 0 {
		return b
	}
	j := b.Categories[i].ItemIndex(sub)
	if j < 0 {
		return b
	}
	c := &b.Categories[i]
	c.Items = append(c.Items[:j], c.Items[j+1:]...)
	if len(c.Items) == 0 {
		b.Categories = append(b.Categories[:i], b.Categories[i+1:]...)
	}
	return b
}

func addSubcategory(b core.Budget, cat string) core.Budget {
	i := b.CategoryIndex(cat)
	if i < 0 {
		return b
	}
	c := &b.Categories[i]
	name := freshName(newItemBase, func(n string) bool { return c.ItemIndex(n) >= 0 })
	c.Items = append(c.Items, core.BudgetItem{Name: name, Amount: 0})
	return b
}

func addCategory(b core.Budget) core.Budget {
	name := freshName(newCategoryBase, func(n string) bool { return b.CategoryIndex(n) >= 0 })
	b.Categories = append(b.Categories, core.Category{
		Name:  name,
		Items: []core.BudgetItem{{Name: newItemBase, Amount: 0}},
	})
	return b
}

// renameCategory keeps the category position and its items. An empty or
// unchanged name, a missing category, or a collision with another category
// is a no-op. Colliding renames are rejected rather than silently merged.
func renameCategory(b core.Budget, oldName, newName string) core.Budget {
	if newName == "" || newName == oldName {
		return b
	}
	i := b.CategoryIndex(oldName)
	if i < 0 || b.CategoryIndex(newName) >= 0 {
		return b
	}
	b.Categories[i].Name = newName
	return b
}

func renameSubcategory(b core.Budget, cat, oldSub, newSub string) core.Budget {
	if newSub == "" || newSub == oldSub {
		return b
	}
	i := b.CategoryIndex(cat)
	if i < 0 {
		return b
	}
	c := &b.Categories[i]
	j := c.ItemIndex(oldSub)
	if j < 0 || c.ItemIndex(newSub) >= 0 {
		return b
	}
	c.Items[j].Name = newSub
	return b
}

// setAmount coerces the raw value with max(0, numeric(value)); anything that
// does not parse as a number becomes 0.
func setAmount(b core.Budget, cat, sub, raw string) core.Budget {
	i := b.CategoryIndex(cat)
	if i < 0 {
		return b
	}
	c := &b.Categories[i]
	j := c.ItemIndex(sub)
	if j < 0 {
		return b
	}
	c.Items[j].Amount = coerce(raw)
	return b
}

func coerce(raw string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// freshName returns "{base} {i}" for the smallest positive i not taken.
func freshName(base string, taken func(string) bool) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s %d", base, i)
		if !taken(name) {
			return name
		}
	}
}
