package model

// DepartmentAll is the sentinel meaning "every department". It is only
// ever used for views and statistics scoping; it can never be assigned
// to a product, user, or indent.
const DepartmentAll = "All"

// Department is a named member of the organization. Products, users and
// indents belong to a department by name, not by reference: deleting a
// department does not cascade to records already tagged with it.
type Department struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// DefaultDepartments are seeded on first run.
var DefaultDepartments = []string{
	"Admin", "HR", "Accounts", "Store", "Logistics",
	"Mechanical", "Electrical", "ETP", "Boiler",
}

// DefaultCategories are offered by the registration form.
var DefaultCategories = []string{
	"Peripherals", "Monitors", "Laptops", "Audio", "Accessories", "Office",
	"Spare Parts", "Chemicals", "Tools", "PPE", "Stationery",
}
