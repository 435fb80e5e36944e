package service

import (
	"strings"

	"stockledger/internal/model"
)

// Viewer carries the two inputs that decide a user's visible scope: the
// department on their account and whether they hold GLOBAL_ACCESS.
type Viewer struct {
	Department      string
	HasGlobalAccess bool
}

// EffectiveDepartment resolves the department scope for a viewer. Without
// GLOBAL_ACCESS the viewer is pinned to their own department no matter
// what the UI selector says; with it, the selection applies, including
// the "All" sentinel.
func EffectiveDepartment(viewer Viewer, selected string) string {
	if !viewer.HasGlobalAccess {
		return viewer.Department
	}
	if selected == "" {
		return model.DepartmentAll
	}
	return selected
}

// FilterProducts returns the subset visible under the effective
// department and an optional search term matched case-insensitively
// against name and SKU. Input order is preserved.
func FilterProducts(products []model.Product, effectiveDept, search string) []model.Product {
	needle := strings.ToLower(search)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if effectiveDept != model.DepartmentAll && p.Department != effectiveDept {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FilterIndents scopes indents to the effective department.
func FilterIndents(indents []model.Indent, effectiveDept string) []model.Indent {
	if effectiveDept == model.DepartmentAll {
		return indents
	}
	out := make([]model.Indent, 0, len(indents))
	for _, indent := range indents {
		if indent.Department == effectiveDept {
			out = append(out, indent)
		}
	}
	return out
}

// FilterTransactions scopes transactions to the effective department.
func FilterTransactions(transactions []model.Transaction, effectiveDept string) []model.Transaction {
	if effectiveDept == model.DepartmentAll {
		return transactions
	}
	out := make([]model.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Department == effectiveDept {
			out = append(out, tx)
		}
	}
	return out
}
