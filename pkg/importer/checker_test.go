package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hazyhaar/unifold/pkg/store"
)

func TestChecker_CheckAll(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.URL.Path == "/gone.csv" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	st := tempStore(t)
	ctx := context.Background()
	for _, imp := range []store.Import{
		{DatasetID: "alive", SourceURL: ts.URL + "/alive.csv"},
		{DatasetID: "gone", SourceURL: ts.URL + "/gone.csv"},
		{DatasetID: "local", SourceURL: ""},
	} {
		if err := st.RecordImport(ctx, imp); err != nil {
			t.Fatalf("RecordImport: %v", err)
		}
	}

	NewChecker(st, quietLogger(), 0).CheckAll(ctx)

	imports, err := st.ListImports(ctx)
	if err != nil {
		t.Fatalf("ListImports: %v", err)
	}
	got := map[string]store.Import{}
	for _, imp := range imports {
		got[imp.DatasetID] = imp
	}

	if s := got["alive"].LastStatus; s == nil || *s != http.StatusOK {
		t.Fatalf("alive: expected 200, got %v", s)
	}
	if s := got["gone"].LastStatus; s == nil || *s != http.StatusNotFound {
		t.Fatalf("gone: expected 404, got %v", s)
	}
	if e := got["gone"].LastError; e == nil || *e != "HTTP 404" {
		t.Fatalf("gone: expected last_error, got %v", e)
	}
	if got["local"].CheckedAt != nil {
		t.Fatal("local dataset must not be checked")
	}
}

func TestChecker_StartStopsOnCancel(t *testing.T) {
	st := tempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewChecker(st, quietLogger(), 1<<30).Start(ctx)
		close(done)
	}()
	<-done
}
