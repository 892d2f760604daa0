package importer_test

import (
	"strings"
	"testing"

	"bakeshop/internal/importer"
)

func TestContactsMapping_HeaderAliases(t *testing.T) {
	csv := strings.Join([]string{
		`Customer Name,E-Mail,Phone Number,Street Address,Comments`,
		`Maria Lopez,maria@example.com,555-0101,12 Mill Rd,prefers pickup`,
		`Sam Whitfield,,,,"likes rye, seeded"`,
	}, "\n")

	result, err := importer.ContactsMapping.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("expected no skips, got %v", result.Skipped)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}

	first := result.Records[0]
	if first["name"] != "Maria Lopez" || first["email"] != "maria@example.com" || first["address"] != "12 Mill Rd" {
		t.Errorf("unexpected record %v", first)
	}
	second := result.Records[1]
	if second["name"] != "Sam Whitfield" {
		t.Errorf("unexpected record %v", second)
	}
	if _, ok := second["email"]; ok {
		t.Error("empty optional values should be absent from the record")
	}
	if second["notes"] != "likes rye, seeded" {
		t.Errorf("quoted comma value mangled: %q", second["notes"])
	}
}

func TestContactsMapping_MissingRequiredHeaderFailsImport(t *testing.T) {
	csv := "Email,Phone\nmaria@example.com,555-0101\n"
	_, err := importer.ContactsMapping.Read(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected import to fail without a name column")
	}
}

func TestContactsMapping_RowMissingRequiredValueIsSkipped(t *testing.T) {
	csv := strings.Join([]string{
		`Name,Email`,
		`,noname@example.com`,
		`Priya Nair,priya@example.com`,
	}, "\n")

	result, err := importer.ContactsMapping.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(result.Skipped))
	}
	if result.Skipped[0].Line != 2 {
		t.Errorf("expected skip on line 2, got %d", result.Skipped[0].Line)
	}
}

func TestExpensesMapping_NormalizesDatesAndAmounts(t *testing.T) {
	csv := strings.Join([]string{
		`Transaction Date,Total,Type,Payee`,
		`03/05/2026,"$1,234.56",ingredients,Cash & Carry`,
		`2026-03-18,80,utilities,City Power`,
		`not a date,10.00,misc,Nobody`,
		`2026-03-20,not money,misc,Nobody`,
	}, "\n")

	result, err := importer.ExpensesMapping.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d (skipped %v)", len(result.Records), result.Skipped)
	}
	if len(result.Skipped) != 2 {
		t.Fatalf("expected 2 skips, got %d", len(result.Skipped))
	}

	first := result.Records[0]
	if first["incurred_on"] != "2026-03-05" {
		t.Errorf("expected normalized date, got %q", first["incurred_on"])
	}
	if first["amount"] != "1234.56" {
		t.Errorf("expected normalized amount, got %q", first["amount"])
	}
	if first["vendor"] != "Cash & Carry" {
		t.Errorf("expected payee mapped to vendor, got %q", first["vendor"])
	}

	second := result.Records[1]
	if second["amount"] != "80.00" {
		t.Errorf("expected 80.00, got %q", second["amount"])
	}
}

func TestMapping_UnknownColumnsIgnored(t *testing.T) {
	csv := "Name,Favourite Colour\nMaria Lopez,teal\n"
	result, err := importer.ContactsMapping.Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if _, ok := result.Records[0]["favouritecolour"]; ok {
		t.Error("unknown columns must not leak into records")
	}
}
