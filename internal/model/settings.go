package model

// FormFieldSetting configures one field of the product registration form.
// Three fields can never be disabled: name, quantity and unit.
type FormFieldSetting struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	FieldID  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"id"`
	Label    string `gorm:"type:varchar(100);not null" json:"label"`
	Enabled  bool   `gorm:"default:true" json:"is_enabled"`
	Required bool   `gorm:"default:false" json:"is_required"`
	Position int    `gorm:"default:0" json:"-"`
}

// MandatoryFormFields cannot be disabled through settings.
var MandatoryFormFields = map[string]bool{
	"name":     true,
	"quantity": true,
	"unit":     true,
}

// DefaultFormFields seeds the registration form configuration.
var DefaultFormFields = []FormFieldSetting{
	{FieldID: "name", Label: "Item Name", Enabled: true, Required: true, Position: 1},
	{FieldID: "sku", Label: "SKU / Part No", Enabled: true, Required: true, Position: 2},
	{FieldID: "category", Label: "Category", Enabled: true, Required: true, Position: 3},
	{FieldID: "quantity", Label: "Initial Stock", Enabled: true, Required: true, Position: 4},
	{FieldID: "unit", Label: "Unit (UOM)", Enabled: true, Required: true, Position: 5},
	{FieldID: "price", Label: "Unit Price", Enabled: true, Required: false, Position: 6},
	{FieldID: "minStock", Label: "Min Stock Level", Enabled: true, Required: false, Position: 7},
	{FieldID: "batchNumber", Label: "Batch / Lot No", Enabled: true, Required: false, Position: 8},
	{FieldID: "supplier", Label: "Vendor / Supplier", Enabled: false, Required: false, Position: 9},
	{FieldID: "location", Label: "Rack / Location", Enabled: false, Required: false, Position: 10},
	{FieldID: "expiryDate", Label: "Expiry Date", Enabled: false, Required: false, Position: 11},
	{FieldID: "description", Label: "Remarks / Desc", Enabled: true, Required: false, Position: 12},
}

// AppConfig holds app branding. A single row exists.
type AppConfig struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	AppName string `gorm:"type:varchar(100);not null" json:"app_name"`
	LogoURL string `gorm:"type:varchar(500)" json:"logo_url,omitempty"`
}

// DefaultAppConfig seeds the branding row on first run.
var DefaultAppConfig = AppConfig{AppName: "InventoryPro"}
