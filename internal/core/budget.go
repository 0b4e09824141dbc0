package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type (
	// BudgetItem is a single named monthly amount inside a category.
	BudgetItem struct {
		Name   string
		Amount float64
	}

	// Category groups budget items under one display name.
	Category struct {
		Name  string
		Items []BudgetItem
	}

	// Budget is the two-level monthly budget tree. Categories and items keep
	// their insertion order; the on-disk JSON form is the nested object
	// {"category": {"item": amount}} with keys emitted in tree order.
	Budget struct {
		Categories []Category
	}
)

// CategoryIndex returns the position of the named category, or -1.
func (b Budget) CategoryIndex(name string) int {
	for i, c := range b.Categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ItemIndex returns the position of the named item, or -1.
func (c Category) ItemIndex(name string) int {
	for i, it := range c.Items {
		if it.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy. Mutating the copy never touches the original.
func (b Budget) Clone() Budget {
	out := Budget{Categories: make([]Category, len(b.Categories))}
	for i, c := range b.Categories {
		items := make([]BudgetItem, len(c.Items))
		copy(items, c.Items)
		out.Categories[i] = Category{Name: c.Name, Items: items}
	}
	return out
}

// Total sums every item amount across the whole tree.
func (b Budget) Total() float64 {
	var total float64
	for _, c := range b.Categories {
		for _, it := range c.Items {
			total += it.Amount
		}
	}
	return total
}

// IsZero reports whether the tree holds no categories at all.
func (b Budget) IsZero() bool {
	return len(b.Categories) == 0
}

// Normalize drops categories left without items and clamps negative amounts
// to zero, restoring the tree invariants after an untrusted load.
func (b Budget) Normalize() Budget {
	out := Budget{}
	for _, c := range b.Categories {
		if len(c.Items) == 0 {
			continue
		}
		items := make([]BudgetItem, 0, len(c.Items))
		for _, it := range c.Items {
			if it.Amount < 0 {
				it.Amount = 0
			}
			items = append(items, it)
		}
		out.Categories = append(out.Categories, Category{Name: c.Name, Items: items})
	}
	return out
}

// MarshalJSON emits the nested-object form with keys in tree order.
// encoding/json sorts map keys, so the object is written by hand.
func (b Budget) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range b.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteByte('{')
		for j, it := range c.Items {
			if j > 0 {
				buf.WriteByte(',')
			}
			sub, err := json.Marshal(it.Name)
			if err != nil {
				return nil, err
			}
			buf.Write(sub)
			buf.WriteByte(':')
			amount, err := json.Marshal(it.Amount)
			if err != nil {
				return nil, err
			}
			buf.Write(amount)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the nested-object form, preserving the key order found
// in the document. Non-numeric or negative amounts coerce to 0; a duplicate
// key keeps its first position and takes the later amount.
func (b *Budget) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("budget object: %w", err)
	}

	var out Budget
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		catName, ok := tok.(string)
		if !ok {
			return fmt.Errorf("budget category key: got %v", tok)
		}

		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("category %q: %w", catName, err)
		}
		cat := Category{Name: catName}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			itemName, ok := tok.(string)
			if !ok {
				return fmt.Errorf("budget item key: got %v", tok)
			}
			val, err := dec.Token()
			if err != nil {
				return err
			}
			if d, ok := val.(json.Delim); ok {
				return fmt.Errorf("budget item %q/%q: unexpected %v", catName, itemName, d)
			}
			item := BudgetItem{Name: itemName, Amount: coerceAmount(val)}
			if k := cat.ItemIndex(itemName); k >= 0 {
				cat.Items[k] = item
			} else {
				cat.Items = append(cat.Items, item)
			}
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return err
		}

		if k := out.CategoryIndex(catName); k >= 0 {
			out.Categories[k] = cat
		} else {
			out.Categories = append(out.Categories, cat)
		}
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return err
	}

	*b = out.Normalize()
	return nil
}

func expectDelim(dec *json.Decoder, want rune) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || rune(d) != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// coerceAmount maps a decoded JSON token to a non-negative amount.
// Numbers and numeric strings pass through; anything else becomes 0.
func coerceAmount(tok any) float64 {
	var v float64
	switch t := tok.(type) {
	case json.Number:
		v, _ = t.Float64()
	case string:
		v, _ = strconv.ParseFloat(t, 64)
	}
	if v < 0 {
		return 0
	}
	return v
}
