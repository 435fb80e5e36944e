package model

// Permission represents a capability that can be granted to users.
// The catalog below is a closed set: handlers and middleware only ever
// check membership against these codes, never free-form strings.
type Permission struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Code  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name  string `gorm:"type:varchar(100)" json:"name"`
	Group string `gorm:"type:varchar(30)" json:"group"`
}

// Inventory group
const (
	PermInvView        = "INV_VIEW"
	PermInvAdd         = "INV_ADD"
	PermInvEdit        = "INV_EDIT"
	PermInvDelete      = "INV_DELETE"
	PermStockIn        = "STOCK_IN"
	PermStockOut       = "STOCK_OUT"
	PermStockReconcile = "STOCK_RECONCILE"
	PermMinStockEdit   = "MIN_STOCK_EDIT"
	PermCatManage      = "CAT_MANAGE"
	PermUnitManage     = "UNIT_MANAGE"
)

// Indent group
const (
	PermIndView    = "IND_VIEW"
	PermIndCreate  = "IND_CREATE"
	PermIndApprove = "IND_APPROVE"
	PermIndReject  = "IND_REJECT"
	PermIndFulfill = "IND_FULFILL"
)

// Reporting group
const (
	PermReportsView   = "REPORTS_VIEW"
	PermReportsExport = "REPORTS_EXPORT"
	PermReportsPrint  = "REPORTS_PRINT"
	PermPriceView     = "PRICE_VIEW"
	PermPriceEdit     = "PRICE_EDIT"
	PermAuditLogs     = "AUDIT_LOGS"
)

// AI group
const (
	PermAIInsights = "AI_INSIGHTS"
	PermAIDescGen  = "AI_DESC_GEN"
)

// System group
const (
	PermDeptManage     = "DEPT_MANAGE"
	PermUserManage     = "USER_MANAGE"
	PermUserPassReset  = "USER_PASS_RESET"
	PermPurgeData      = "PURGE_DATA"
	PermGlobalAccess   = "GLOBAL_ACCESS"
	PermDashboardView  = "DASHBOARD_VIEW"
	PermSettingsAccess = "SETTINGS_ACCESS"
)

// DefaultPermissions is the full capability catalog seeded at startup.
var DefaultPermissions = []Permission{
	{Code: PermInvView, Name: "View Stock Ledger", Group: "Inventory"},
	{Code: PermInvAdd, Name: "Register New Assets", Group: "Inventory"},
	{Code: PermInvEdit, Name: "Edit Asset Details", Group: "Inventory"},
	{Code: PermInvDelete, Name: "Delete Asset Records", Group: "Inventory"},
	{Code: PermStockIn, Name: "Post Receipt (Add)", Group: "Inventory"},
	{Code: PermStockOut, Name: "Post Issue (Out)", Group: "Inventory"},
	{Code: PermStockReconcile, Name: "Manual Correction", Group: "Inventory"},
	{Code: PermMinStockEdit, Name: "Edit Min Stock Levels", Group: "Inventory"},
	{Code: PermCatManage, Name: "Manage Categories", Group: "Inventory"},
	{Code: PermUnitManage, Name: "Manage Units", Group: "Inventory"},
	{Code: PermIndView, Name: "View Requisitions", Group: "Indents"},
	{Code: PermIndCreate, Name: "Create Requisitions", Group: "Indents"},
	{Code: PermIndApprove, Name: "Approve Requisitions", Group: "Indents"},
	{Code: PermIndReject, Name: "Reject Requisitions", Group: "Indents"},
	{Code: PermIndFulfill, Name: "Close/Fulfill Indents", Group: "Indents"},
	{Code: PermReportsView, Name: "Access Analytics", Group: "Reporting"},
	{Code: PermReportsExport, Name: "Export Data (XLSX)", Group: "Reporting"},
	{Code: PermReportsPrint, Name: "Print Stock Lists", Group: "Reporting"},
	{Code: PermPriceView, Name: "View Asset Pricing", Group: "Reporting"},
	{Code: PermPriceEdit, Name: "Modify Asset Price", Group: "Reporting"},
	{Code: PermAuditLogs, Name: "View Activity Logs", Group: "Reporting"},
	{Code: PermAIInsights, Name: "AI Analysis Access", Group: "AI"},
	{Code: PermAIDescGen, Name: "AI Description Generator", Group: "AI"},
	{Code: PermDeptManage, Name: "Manage Departments", Group: "System"},
	{Code: PermUserManage, Name: "Manage User Accounts", Group: "System"},
	{Code: PermUserPassReset, Name: "Reset User Passwords", Group: "System"},
	{Code: PermPurgeData, Name: "Purge System Data", Group: "System"},
	{Code: PermGlobalAccess, Name: "Global (All Dept) Access", Group: "System"},
	{Code: PermDashboardView, Name: "View Main Dashboard", Group: "System"},
	{Code: PermSettingsAccess, Name: "Access System Settings", Group: "System"},
}

// AdminPermissionCodes returns every code in the catalog. Admin accounts
// hold the full set by construction.
func AdminPermissionCodes() []string {
	codes := make([]string, len(DefaultPermissions))
	for i, p := range DefaultPermissions {
		codes[i] = p.Code
	}
	return codes
}
