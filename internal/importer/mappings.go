package importer

// ContactsMapping accepts contact exports from spreadsheets and other CRM
// tools. Only the name is mandatory.
var ContactsMapping = Mapping{
	Name: "contacts",
	Fields: []Field{
		{Name: "name", Aliases: []string{"contact", "contact name", "customer", "customer name", "full name"}, Required: true},
		{Name: "email", Aliases: []string{"e-mail", "email address", "mail"}},
		{Name: "phone", Aliases: []string{"phone number", "telephone", "mobile", "cell"}},
		{Name: "address", Aliases: []string{"street", "street address", "location"}},
		{Name: "notes", Aliases: []string{"note", "comment", "comments", "remarks"}},
	},
}

// ExpensesMapping accepts expense exports from banking and bookkeeping
// tools. Dates and amounts are normalized to YYYY-MM-DD and plain decimals.
var ExpensesMapping = Mapping{
	Name: "expenses",
	Fields: []Field{
		{Name: "incurred_on", Aliases: []string{"date", "expense date", "transaction date", "posted"}, Required: true, Normalize: NormalizeDate},
		{Name: "amount", Aliases: []string{"total", "cost", "value", "debit"}, Required: true, Normalize: NormalizeAmount},
		{Name: "category", Aliases: []string{"type", "expense type", "group"}},
		{Name: "description", Aliases: []string{"memo", "detail", "details", "narration"}},
		{Name: "vendor", Aliases: []string{"payee", "supplier", "merchant"}},
	},
}
