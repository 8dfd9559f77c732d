package careers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/edupath/careerkit/core"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "careers.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeCSV(t, `career_id,title,description,required_skills,suitable_interests,education_path,stream_tag
C001,Software Developer,Builds software systems,"programming, algorithms","coding, problem solving",B.Tech CSE,science
C023,Chartered Accountant,Handles audits and accounts,"accounting, taxation","business, finance",CA Foundation,commerce
`)
	records, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ID != "C001" || records[0].Title != "Software Developer" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[0].Domain != core.DomainCoding {
		t.Errorf("C001 domain = %s, want coding", records[0].Domain)
	}
	if records[1].Domain != core.DomainFinance {
		t.Errorf("C023 domain = %s, want finance", records[1].Domain)
	}
	if records[1].StreamTag != "commerce" {
		t.Errorf("stream tag = %q", records[1].StreamTag)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !core.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND domain error, got %v", err)
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := writeCSV(t, "id,name\n1,x\n")
	_, err := LoadCSV(path)
	if err == nil {
		t.Fatal("expected error for missing career_id column")
	}
	if !core.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT domain error, got %v", err)
	}
}

func TestLoadCSVDuplicateID(t *testing.T) {
	path := writeCSV(t, "career_id,title\nC001,A\nC001,B\n")
	if _, err := LoadCSV(path); err == nil {
		t.Fatal("expected error for duplicate career_id")
	}
}

func TestIndex(t *testing.T) {
	records := []core.CareerRecord{{ID: "C001"}, {ID: "C002"}}
	idx := Index(records)
	if idx["C001"] == nil || idx["C002"] == nil {
		t.Fatal("index missing entries")
	}
	if idx["C001"] != &records[0] {
		t.Error("index should point into the records slice")
	}
}
