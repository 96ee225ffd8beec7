package index

import (
	"testing"
	"time"

	"github.com/yo-kondo/fmtbookdir/internal/models"
	"github.com/yo-kondo/fmtbookdir/internal/testutil"
)

func sampleRecord() models.Record {
	r := models.NewRecord(time.Date(2020, time.May, 1, 0, 0, 0, 0, time.UTC), "Clean Code", "2020/book1/README.md", "R. Martin")
	r.Code = "978-0132350884"
	r.NewLink = "md/2020/978-0132350884/README.md"
	return r
}

func TestFormat_CRLFLines(t *testing.T) {
	got := string(Format([]models.Record{sampleRecord()}))
	want := "1. 2020/05/01 - [Clean Code](md/2020/978-0132350884/README.md) - R. Martin\r\n"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormat_Empty(t *testing.T) {
	if got := Format(nil); len(got) != 0 {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
}

func TestWrite_ReplacesExistingOutput(t *testing.T) {
	root, store := testutil.TestRepo(t)
	testutil.WriteFiles(t, root, map[string]string{
		OutputFile: "stale content that is much longer than the new index\r\n",
	})

	rec := sampleRecord()
	receipt, err := Write(store, []models.Record{rec, rec})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !receipt.Valid() || receipt.Path() != OutputFile || receipt.Entries() != 2 {
		t.Errorf("receipt = %+v", receipt)
	}

	got, err := store.Read(OutputFile)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	line := FormatLine(rec) + "\r\n"
	if string(got) != line+line {
		t.Errorf("output = %q", got)
	}
}

func TestReceipt_ZeroIsInvalid(t *testing.T) {
	var r Receipt
	if r.Valid() {
		t.Error("zero Receipt must not be valid")
	}
}
