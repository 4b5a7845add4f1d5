package domain

import "strings"

// Logical account keys resolved through PostingConfig.DefaultAccountCodes.
const (
	AccountKeyCash               = "cash"
	AccountKeyBank               = "bank"
	AccountKeyAccountsReceivable = "accounts_receivable"
	AccountKeySalesRevenue       = "sales_revenue"
	AccountKeySalesDiscount      = "sales_discount"
	AccountKeyTaxPayable         = "tax_payable"
	AccountKeyInventory          = "inventory"
	AccountKeyCostOfGoodsSold    = "cost_of_goods_sold"
	AccountKeyOtherIncome        = "other_income"
	AccountKeyOtherExpense       = "other_expense"
)

// RequiredAccountKeys must be present in every posting configuration.
var RequiredAccountKeys = []string{
	AccountKeyCash,
	AccountKeySalesRevenue,
	AccountKeyTaxPayable,
	AccountKeyInventory,
	AccountKeyOtherIncome,
	AccountKeyOtherExpense,
}

// UnmappedCategoryPolicy decides what happens to a manual transaction whose
// category has no account mapping.
type UnmappedCategoryPolicy string

const (
	UnmappedFallback UnmappedCategoryPolicy = "fallback"
	UnmappedReject   UnmappedCategoryPolicy = "error"
)

// CashFlowActivity is a cash flow statement section.
type CashFlowActivity string

const (
	Operating CashFlowActivity = "operating"
	Investing CashFlowActivity = "investing"
	Financing CashFlowActivity = "financing"
)

// AccountSeed describes one account of a starter chart.
type AccountSeed struct {
	Code    string      `yaml:"code" validate:"required"`
	Name    string      `yaml:"name" validate:"required"`
	Type    AccountType `yaml:"type" validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	SubType string      `yaml:"sub_type"`
}

// PostingConfig is the read-only rule table shared by the resolver, the
// posting engine and the statement compiler. It is loaded once and passed
// explicitly.
type PostingConfig struct {
	AutoCreateJournalEntries bool                        `yaml:"auto_create_journal_entries"`
	DefaultAccountCodes      map[string]string           `yaml:"default_account_codes" validate:"required"`
	PaymentMethodAccounts    map[string]string           `yaml:"payment_method_accounts"`
	CategoryAccounts         map[string]string           `yaml:"category_accounts"`
	UnmappedCategoryPolicy   UnmappedCategoryPolicy      `yaml:"unmapped_category_policy" validate:"omitempty,oneof=fallback error"`
	CashFlowCategories       map[string]CashFlowActivity `yaml:"cash_flow_categories" validate:"dive,oneof=operating investing financing"`
	ChartOfAccounts          []AccountSeed               `yaml:"chart_of_accounts" validate:"dive"`
}

// DefaultPostingConfig returns the built-in rule table and starter chart.
func DefaultPostingConfig() PostingConfig {
	return PostingConfig{
		AutoCreateJournalEntries: true,
		DefaultAccountCodes: map[string]string{
			AccountKeyCash:               "1101",
			AccountKeyBank:               "1102",
			AccountKeyAccountsReceivable: "1103",
			AccountKeyInventory:          "1201",
			AccountKeyTaxPayable:         "2101",
			AccountKeySalesRevenue:       "4101",
			AccountKeySalesDiscount:      "4102",
			AccountKeyOtherIncome:        "4201",
			AccountKeyCostOfGoodsSold:    "5101",
			AccountKeyOtherExpense:       "6199",
		},
		PaymentMethodAccounts: map[string]string{
			"cash":          AccountKeyCash,
			"card":          AccountKeyBank,
			"debit_card":    AccountKeyBank,
			"credit_card":   AccountKeyBank,
			"qr":            AccountKeyBank,
			"qris":          AccountKeyBank,
			"ewallet":       AccountKeyBank,
			"bank_transfer": AccountKeyBank,
			"credit":        AccountKeyAccountsReceivable,
		},
		CategoryAccounts: map[string]string{
			"rent":      "6101",
			"salary":    "6102",
			"salaries":  "6102",
			"utilities": "6103",
			"supplies":  "6104",
		},
		UnmappedCategoryPolicy: UnmappedFallback,
		CashFlowCategories: map[string]CashFlowActivity{
			"equipment":      Investing,
			"asset_purchase": Investing,
			"loan":           Financing,
			"owner_capital":  Financing,
			"owner_drawing":  Financing,
		},
		ChartOfAccounts: []AccountSeed{
			{Code: "1101", Name: "Cash", Type: Asset, SubType: "current_asset"},
			{Code: "1102", Name: "Bank", Type: Asset, SubType: "current_asset"},
			{Code: "1103", Name: "Accounts Receivable", Type: Asset, SubType: "current_asset"},
			{Code: "1201", Name: "Inventory", Type: Asset, SubType: "current_asset"},
			{Code: "2101", Name: "Tax Payable", Type: Liability, SubType: "current_liability"},
			{Code: "3101", Name: "Owner's Equity", Type: Equity, SubType: "capital"},
			{Code: "4101", Name: "Sales Revenue", Type: Revenue, SubType: "operating_revenue"},
			{Code: "4102", Name: "Sales Discount", Type: Revenue, SubType: "contra_revenue"},
			{Code: "4201", Name: "Other Income", Type: Revenue, SubType: "other_revenue"},
			{Code: "5101", Name: "Cost of Goods Sold", Type: Expense, SubType: "cost_of_sales"},
			{Code: "6101", Name: "Rent Expense", Type: Expense, SubType: "operating_expense"},
			{Code: "6102", Name: "Salaries Expense", Type: Expense, SubType: "operating_expense"},
			{Code: "6103", Name: "Utilities Expense", Type: Expense, SubType: "operating_expense"},
			{Code: "6104", Name: "Supplies Expense", Type: Expense, SubType: "operating_expense"},
			{Code: "6199", Name: "Other Expense", Type: Expense, SubType: "other_expense"},
		},
	}
}

// AccountCode returns the chart code configured for a logical key.
func (c PostingConfig) AccountCode(key string) (string, bool) {
	code, ok := c.DefaultAccountCodes[key]
	return code, ok && code != ""
}

// PaymentAccountKey returns the account a payment method settles to, either
// a logical key of DefaultAccountCodes or a chart code. Unknown or empty
// methods settle to cash.
func (c PostingConfig) PaymentAccountKey(method string) string {
	if key, ok := c.PaymentMethodAccounts[normalizeKey(method)]; ok && key != "" {
		return key
	}
	return AccountKeyCash
}

// PaymentAccountCode resolves a payment method to a chart code.
func (c PostingConfig) PaymentAccountCode(method string) (string, bool) {
	return c.ResolveAccountRef(c.PaymentAccountKey(method))
}

// ResolveAccountRef turns a logical key into its configured code. Any other
// non-empty value is taken as a chart code.
func (c PostingConfig) ResolveAccountRef(ref string) (string, bool) {
	if _, isKey := c.DefaultAccountCodes[ref]; isKey {
		return c.AccountCode(ref)
	}
	return ref, ref != ""
}

// CategoryAccountCode returns the chart code mapped to a transaction category.
func (c PostingConfig) CategoryAccountCode(category string) (string, bool) {
	code, ok := c.CategoryAccounts[normalizeKey(category)]
	return code, ok && code != ""
}

// ActivityFor buckets a transaction category. Unmapped categories are operating.
func (c PostingConfig) ActivityFor(category string) CashFlowActivity {
	if a, ok := c.CashFlowCategories[normalizeKey(category)]; ok {
		return a
	}
	return Operating
}

// Normalize lower-cases the lookup keys of the category and payment method tables.
func (c *PostingConfig) Normalize() {
	c.PaymentMethodAccounts = normalizeMap(c.PaymentMethodAccounts)
	c.CategoryAccounts = normalizeMap(c.CategoryAccounts)
	if c.CashFlowCategories != nil {
		out := make(map[string]CashFlowActivity, len(c.CashFlowCategories))
		for k, v := range c.CashFlowCategories {
			out[normalizeKey(k)] = CashFlowActivity(normalizeKey(string(v)))
		}
		c.CashFlowCategories = out
	}
	if c.UnmappedCategoryPolicy == "" {
		c.UnmappedCategoryPolicy = UnmappedFallback
	}
}

func normalizeMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[normalizeKey(k)] = strings.TrimSpace(v)
	}
	return out
}

// NormalizeCategory is the form under which categories are grouped and looked up.
func NormalizeCategory(category string) string {
	return normalizeKey(category)
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
