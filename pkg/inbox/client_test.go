package inbox

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidwall/gjson"

	"medreview/pkg/model"
)

func TestFetchInboxSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"success": true,
			"reports": [
				{"verificationStatus": "PENDING", "result": {"analysisId": "an-1", "patientContext": {"name": "Alice Wong"}}},
				{"verificationStatus": "VERIFIED", "result": {"analysisId": "an-2"}}
			]
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	reports, err := c.FetchInbox(context.Background(), "doc-9")
	if err != nil {
		t.Fatalf("FetchInbox: %v", err)
	}
	if gotPath != "/api/doctor/inbox/doc-9" {
		t.Errorf("path = %q", gotPath)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports", len(reports))
	}
	if reports[0].ID != "an-1" || reports[0].PatientName != "Alice Wong" {
		t.Errorf("report 0 = %+v", reports[0])
	}
	if reports[1].Status != model.StatusVerified {
		t.Errorf("report 1 status = %q", reports[1].Status)
	}
}

func TestFetchInboxStoreRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success": false, "error": "doctor not found"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	if _, err := c.FetchInbox(context.Background(), "doc-9"); err == nil {
		t.Fatal("expected error when success=false")
	}
}

func TestFetchInboxBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	if _, err := c.FetchInbox(context.Background(), "doc-9"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestFetchInboxMalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>proxy error</html>`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	if _, err := c.FetchInbox(context.Background(), "doc-9"); err == nil {
		t.Fatal("expected error on non-JSON body")
	}
}

func TestPatchReportBody(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		io.WriteString(w, `{"success": true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	err := c.PatchReport(context.Background(), "doc-9", "an-1", StatusPatch(model.StatusRejected, "blurred scan"))
	if err != nil {
		t.Fatalf("PatchReport: %v", err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %q", gotMethod)
	}
	if gotPath != "/api/doctor/inbox/doc-9/an-1" {
		t.Errorf("path = %q", gotPath)
	}
	body := gjson.Parse(gotBody)
	if body.Get("status").String() != "REJECTED" {
		t.Errorf("body status = %q", body.Get("status").String())
	}
	if body.Get("reason").String() != "blurred scan" {
		t.Errorf("body reason = %q", body.Get("reason").String())
	}
	if body.Get("aiExplanation").Exists() {
		t.Error("unset fields must be omitted from the patch body")
	}
}

func TestPatchReportOmitsReasonOnApprove(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	if err := c.PatchReport(context.Background(), "doc-9", "an-1", StatusPatch(model.StatusVerified, "")); err != nil {
		t.Fatalf("PatchReport: %v", err)
	}
	body := gjson.Parse(gotBody)
	if body.Get("status").String() != "VERIFIED" {
		t.Errorf("body status = %q", body.Get("status").String())
	}
	if body.Get("reason").Exists() {
		t.Error("approval body must not carry a reason")
	}
}

func TestPatchReportRejectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0)
	if err := c.PatchReport(context.Background(), "doc-9", "an-1", ExplanationPatch("x")); err == nil {
		t.Fatal("expected error on non-2xx patch response")
	}
}
