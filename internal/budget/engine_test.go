package budget

import (
	"reflect"
	"testing"

	"patrimoine/internal/core"
)

func testTree() core.Budget {
	return core.Budget{Categories: []core.Category{
		{Name: "Logement", Items: []core.BudgetItem{
			{Name: "Loyer", Amount: 800},
			{Name: "Électricité", Amount: 60},
		}},
		{Name: "Transports", Items: []core.BudgetItem{
			{Name: "Essence", Amount: 120},
		}},
		{Name: "Loisirs", Items: []core.BudgetItem{
			{Name: "Cinéma", Amount: 30},
		}},
	}}
}

func TestApplyNeverMutatesInput(t *testing.T) {
	tree := testTree()
	Apply(&tree, Action{Kind: KindSetAmount, Category: "Logement", Subcategory: "Loyer", Value: "1"})
	Apply(&tree, Action{Kind: KindDeleteCategory, Category: "Logement"})
	if !reflect.DeepEqual(tree, testTree()) {
		t.Error("input tree was mutated")
	}
}

func TestApplyNilTreeUsesDefaults(t *testing.T) {
	got := Apply(nil, Action{Kind: Kind("unknown")})
	if got.IsZero() {
		t.Error("nil tree should fall back to the default template")
	}
	if !reflect.DeepEqual(got, core.DefaultBudget()) {
		t.Error("expected the default template unchanged")
	}
}

func TestApplyEmptyTreeStaysEmpty(t *testing.T) {
	empty := core.Budget{}
	got := Apply(&empty, Action{Kind: Kind("unknown")})
	if !got.IsZero() {
		t.Errorf("an explicit empty tree must not grow defaults, got %v", got)
	}
}

func TestDeleteCategory(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindDeleteCategory, Category: "Logement"})
	if got.CategoryIndex("Logement") >= 0 {
		t.Error("category not deleted")
	}
	if got.CategoryIndex("Transports") != 0 || got.CategoryIndex("Loisirs") != 1 {
		t.Errorf("remaining categories disturbed: %v", got.Categories)
	}
	if got.Categories[0].Items[0].Amount != 120 {
		t.Error("remaining items changed")
	}
}

func TestDeleteCategoryMissingIsNoOp(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindDeleteCategory, Category: "Inexistant"})
	if !reflect.DeepEqual(got, tree) {
		t.Error("deleting a missing category must be a no-op")
	}
}

func TestDeleteSubcategory(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindDeleteSubcategory, Category: "Logement", Subcategory: "Loyer"})
	i := got.CategoryIndex("Logement")
	if i < 0 {
		t.Fatal("category should survive while it still has items")
	}
	if got.Categories[i].ItemIndex("Loyer") >= 0 {
		t.Error("item not deleted")
	}
}

func TestDeleteLastSubcategoryRemovesCategory(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindDeleteSubcategory, Category: "Transports", Subcategory: "Essence"})
	if got.CategoryIndex("Transports") >= 0 {
		t.Error("category emptied of items should disappear")
	}
}

func TestAddCategory(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindAddCategory})
	i := got.CategoryIndex("Catégorie 1")
	if i < 0 {
		t.Fatalf("expected new category, got %v", got.Categories)
	}
	if i != len(got.Categories)-1 {
		t.Error("new category should append at the end")
	}
	items := got.Categories[i].Items
	if len(items) != 1 || items[0].Name != "Nouveau poste" || items[0].Amount != 0 {
		t.Errorf("unexpected seed item: %v", items)
	}
}

func TestAddCategoryTwiceGetsDistinctNames(t *testing.T) {
	tree := testTree()
	once := Apply(&tree, Action{Kind: KindAddCategory})
	twice := Apply(&once, Action{Kind: KindAddCategory})
	if twice.CategoryIndex("Catégorie 1") < 0 || twice.CategoryIndex("Catégorie 2") < 0 {
		t.Errorf("expected Catégorie 1 and Catégorie 2, got %v", twice.Categories)
	}
}

func TestAddCategoryOnEmptyTree(t *testing.T) {
	empty := core.Budget{}
	got := Apply(&empty, Action{Kind: KindAddCategory})
	want := core.Budget{Categories: []core.Category{
		{Name: "Catégorie 1", Items: []core.BudgetItem{{Name: "Nouveau poste", Amount: 0}}},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddSubcategory(t *testing.T) {
	tree := testTree()
	once := Apply(&tree, Action{Kind: KindAddSubcategory, Category: "Logement"})
	twice := Apply(&once, Action{Kind: KindAddSubcategory, Category: "Logement"})
	i := twice.CategoryIndex("Logement")
	c := twice.Categories[i]
	if c.ItemIndex("Nouveau poste 1") < 0 || c.ItemIndex("Nouveau poste 2") < 0 {
		t.Errorf("expected two fresh items, got %v", c.Items)
	}
}

func TestAddSubcategoryMissingCategoryIsNoOp(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindAddSubcategory, Category: "Inexistant"})
	if !reflect.DeepEqual(got, tree) {
		t.Error("expected a no-op")
	}
}

func TestRenameCategory(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindRenameCategory, Category: "Transports", NewName: "Mobilité"})
	if got.CategoryIndex("Mobilité") != 1 {
		t.Error("rename must keep the category position")
	}
	i := got.CategoryIndex("Mobilité")
	if got.Categories[i].Items[0].Name != "Essence" {
		t.Error("rename must keep the items")
	}
}

func TestRenameCategoryRejections(t *testing.T) {
	tree := testTree()
	tests := []struct {
		name   string
		action Action
	}{
		{"empty new name", Action{Kind: KindRenameCategory, Category: "Logement", NewName: ""}},
		{"same name", Action{Kind: KindRenameCategory, Category: "Logement", NewName: "Logement"}},
		{"missing category", Action{Kind: KindRenameCategory, Category: "Inexistant", NewName: "X"}},
		{"collision", Action{Kind: KindRenameCategory, Category: "Logement", NewName: "Transports"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(&tree, tt.action)
			if !reflect.DeepEqual(got, tree) {
				t.Error("expected a no-op")
			}
		})
	}
}

func TestRenameSubcategory(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{
		Kind: KindRenameSubcategory, Category: "Logement",
		Subcategory: "Loyer", NewName: "Crédit",
	})
	c := got.Categories[got.CategoryIndex("Logement")]
	if c.ItemIndex("Crédit") != 0 {
		t.Error("rename must keep the item position")
	}
	if c.Items[0].Amount != 800 {
		t.Error("rename must keep the amount")
	}
}

func TestRenameSubcategoryCollisionIsNoOp(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{
		Kind: KindRenameSubcategory, Category: "Logement",
		Subcategory: "Loyer", NewName: "Électricité",
	})
	if !reflect.DeepEqual(got, tree) {
		t.Error("colliding rename must be rejected")
	}
}

func TestSetAmount(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"integer", "250", 250},
		{"decimal", "120.5", 120.5},
		{"comma decimal", "120,5", 120.5},
		{"negative clamps", "-50", 0},
		{"garbage", "abc", 0},
		{"empty", "", 0},
		{"nan", "NaN", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := testTree()
			got := Apply(&tree, Action{
				Kind: KindSetAmount, Category: "Logement",
				Subcategory: "Loyer", Value: tt.value,
			})
			c := got.Categories[got.CategoryIndex("Logement")]
			if amount := c.Items[0].Amount; amount != tt.want {
				t.Errorf("value %q: got %v, want %v", tt.value, amount, tt.want)
			}
		})
	}
}

func TestSetAmountMissingTargetIsNoOp(t *testing.T) {
	tree := testTree()
	got := Apply(&tree, Action{Kind: KindSetAmount, Category: "Logement", Subcategory: "Inexistant", Value: "10"})
	if !reflect.DeepEqual(got, tree) {
		t.Error("expected a no-op")
	}
}
