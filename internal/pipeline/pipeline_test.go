package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yo-kondo/fmtbookdir/internal/apperr"
	"github.com/yo-kondo/fmtbookdir/internal/index"
	"github.com/yo-kondo/fmtbookdir/internal/storage"
	"github.com/yo-kondo/fmtbookdir/internal/testutil"
)

const readme = "# 読書録\r\n\r\n" +
	"1. 2020/05/01 - [Clean Code](2020/book1/README.md) - R. Martin\r\n" +
	"1. 2020/06/10 - [Kindle Only](2020/book2/README.md) - Someone\r\n"

func seed(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root, store := testutil.TestRepo(t)
	testutil.WriteFiles(t, root, map[string]string{
		"README.md":                readme,
		"2020/book1/README.md":     "|項目|値|\n|---|---|\n|ISBN-13|978-0132350884|\n",
		"2020/book1/img/cover.jpg": "jpeg",
		"2020/book2/README.md":     "|ASIN|B000001|\n",
	})
	return root, store
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		if d.IsDir() {
			out[rel+"/"] = ""
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestRun_EndToEnd(t *testing.T) {
	root, store := seed(t)

	res, err := Run(context.Background(), store, testutil.Logger(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}

	got, err := store.Read(index.OutputFile)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "1. 2020/05/01 - [Clean Code](md/2020/978-0132350884/README.md) - R. Martin\r\n" +
		"1. 2020/06/10 - [Kindle Only](md/2020/B000001/README.md) - Someone\r\n"
	if string(got) != want {
		t.Errorf("new index =\n%q\nwant\n%q", got, want)
	}

	for _, p := range []string{
		"md/2020/978-0132350884/README.md",
		"md/2020/978-0132350884/img/cover.jpg",
		"md/2020/B000001/README.md",
		"README.md",
	} {
		if ok, _ := store.Exists(p); !ok {
			t.Errorf("%s should exist", p)
		}
	}
	for _, p := range []string{"2020/book1", "2020/book2"} {
		if ok, _ := store.Exists(p); ok {
			t.Errorf("%s should be deleted", p)
		}
	}
	if len(res.Deleted.Removed) != 2 {
		t.Errorf("removed = %v", res.Deleted.Removed)
	}
	if _, err := os.Stat(filepath.Join(root, "2020", "book1")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stat original: %v", err)
	}
}

func TestRun_MalformedDateMutatesNothing(t *testing.T) {
	root, store := seed(t)
	testutil.WriteFiles(t, root, map[string]string{
		"README.md": readme + "1. 2020/13/40 - [Bad](2020/book1/README.md) - X\r\n",
	})
	before := snapshot(t, root)

	_, err := Run(context.Background(), store, testutil.Logger(), Options{})
	if !errors.Is(err, apperr.ErrMalformedDate) {
		t.Fatalf("err = %v, want ErrMalformedDate", err)
	}
	if after := snapshot(t, root); !reflect.DeepEqual(before, after) {
		t.Errorf("filesystem changed after a fatal parse error")
	}
}

func TestRun_MissingLinkedFileMutatesNothing(t *testing.T) {
	root, store := seed(t)
	testutil.WriteFiles(t, root, map[string]string{
		"README.md": readme + "1. 2021/01/01 - [Ghost](2021/ghost/README.md) - X\r\n",
	})
	before := snapshot(t, root)

	_, err := Run(context.Background(), store, testutil.Logger(), Options{})
	if !errors.Is(err, apperr.ErrMissingLinkedFile) {
		t.Fatalf("err = %v, want ErrMissingLinkedFile", err)
	}
	if after := snapshot(t, root); !reflect.DeepEqual(before, after) {
		t.Errorf("filesystem changed after a missing linked file")
	}
}

func TestRun_DryRun(t *testing.T) {
	root, store := seed(t)
	before := snapshot(t, root)

	res, err := Run(context.Background(), store, testutil.Logger(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.DryRun || len(res.Plans) != 2 {
		t.Errorf("result = %+v", res)
	}
	if res.Records[1].Code != "B000001" {
		t.Errorf("code = %q, want ASIN", res.Records[1].Code)
	}
	if after := snapshot(t, root); !reflect.DeepEqual(before, after) {
		t.Errorf("dry run changed the filesystem")
	}
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	root, store := seed(t)
	if _, err := Run(context.Background(), store, testutil.Logger(), Options{}); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	// Adopt the rewritten index as the new README.
	newIndex, err := store.Read(index.OutputFile)
	if err != nil {
		t.Fatal(err)
	}
	testutil.WriteFiles(t, root, map[string]string{"README.md": string(newIndex)})
	before := snapshot(t, root)

	res, err := Run(context.Background(), store, testutil.Logger(), Options{})
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Copy.Files != 0 || len(res.Deleted.Removed) != 0 {
		t.Errorf("second run copied %d files and removed %v", res.Copy.Files, res.Deleted.Removed)
	}
	if after := snapshot(t, root); !reflect.DeepEqual(before, after) {
		t.Errorf("second run changed the repository")
	}
}

func TestRun_CancelledBeforeCopy(t *testing.T) {
	root, store := seed(t)
	before := snapshot(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, store, testutil.Logger(), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if after := snapshot(t, root); !reflect.DeepEqual(before, after) {
		t.Errorf("cancelled run changed the filesystem")
	}
}

// recorder logs every mutating call made through a Provider.
type recorder struct {
	storage.Provider
	calls []string
}

func (r *recorder) Write(path string, content []byte) error {
	r.calls = append(r.calls, "write:"+path)
	return r.Provider.Write(path, content)
}

func (r *recorder) CopyDir(src, dst string) (storage.CopyStats, error) {
	r.calls = append(r.calls, "copy:"+src)
	return r.Provider.CopyDir(src, dst)
}

func (r *recorder) RemoveAll(path string) error {
	r.calls = append(r.calls, "remove:"+path)
	return r.Provider.RemoveAll(path)
}

func TestRun_PhaseOrder(t *testing.T) {
	_, store := seed(t)
	rec := &recorder{Provider: store}

	if _, err := Run(context.Background(), rec, testutil.Logger(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"copy:2020/book1",
		"copy:2020/book2",
		"write:" + index.OutputFile,
		"remove:2020/book1",
		"remove:2020/book2",
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v\nwant    %v", rec.calls, want)
	}
}

// failingCopy fails CopyDir for one source directory.
type failingCopy struct {
	*recorder
	failOn string
}

func (f *failingCopy) CopyDir(src, dst string) (storage.CopyStats, error) {
	if src == f.failOn {
		return storage.CopyStats{}, apperr.ErrFilesystem
	}
	return f.recorder.CopyDir(src, dst)
}

func TestRun_CopyFailureStopsBeforeWriteAndDelete(t *testing.T) {
	_, store := seed(t)
	f := &failingCopy{recorder: &recorder{Provider: store}, failOn: "2020/book2"}

	_, err := Run(context.Background(), f, testutil.Logger(), Options{})
	if !errors.Is(err, apperr.ErrFilesystem) {
		t.Fatalf("err = %v, want ErrFilesystem", err)
	}
	if want := []string{"copy:2020/book1"}; !reflect.DeepEqual(f.calls, want) {
		t.Errorf("calls = %v, want %v", f.calls, want)
	}
	if ok, _ := store.Exists(index.OutputFile); ok {
		t.Error("new index must not be written after a copy failure")
	}
	if ok, _ := store.Exists("2020/book1/README.md"); !ok {
		t.Error("originals must survive a copy failure")
	}
}

func TestRun_ReportsSharedTargets(t *testing.T) {
	root, store := testutil.TestRepo(t)
	testutil.WriteFiles(t, root, map[string]string{
		"README.md": "1. 2020/05/01 - [A](2020/a/README.md) - X\n" +
			"1. 2020/06/01 - [B](2020/b/README.md) - Y\n",
		"2020/a/README.md": "book A notes\n",
		"2020/b/README.md": "book B notes\n",
	})
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	res, err := Run(context.Background(), store, logger, Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := res.SharedTargets["md/2020"]; !reflect.DeepEqual(got, []string{"2020/a", "2020/b"}) {
		t.Errorf("shared targets = %v", res.SharedTargets)
	}
	if !strings.Contains(logs.String(), `"level":"WARN"`) || !strings.Contains(logs.String(), `"target":"md/2020"`) {
		t.Errorf("missing shared-target warning: %s", logs.String())
	}
}
