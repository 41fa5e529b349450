// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func overridePubMedBase(tsURL string) func() {
	orig := pubmedAPIBase
	pubmedAPIBase = tsURL + "/pmc/"
	return func() { pubmedAPIBase = orig }
}

func TestPubMedResolve(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"full text url preferred",
			`{"full_text_url": "http://pmc/article.pdf", "pdf_url": "http://pmc/other.pdf"}`,
			"http://pmc/article.pdf",
		},
		{
			"pdf url fallback",
			`{"pdf_url": "http://pmc/other.pdf"}`,
			"http://pmc/other.pdf",
		},
		{
			"pdf suffix appended",
			`{"full_text_url": "http://pmc/articles/PMC123"}`,
			"http://pmc/articles/PMC123.pdf",
		},
		{
			"uppercase suffix accepted as-is",
			`{"full_text_url": "http://pmc/article.PDF"}`,
			"http://pmc/article.PDF",
		},
		{
			"no url fields",
			`{"id": "PMC123"}`,
			"",
		},
		{
			"malformed payload absorbed",
			`{"full_text_url": `,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()
			defer overridePubMedBase(ts.URL)()

			p := &PubMed{Client: ts.Client(), Logger: discardLogger()}
			got := p.Resolve(context.Background(), "10.1000/x")
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPubMedNon200Absorbed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()
	defer overridePubMedBase(ts.URL)()

	p := &PubMed{Client: ts.Client(), Logger: discardLogger()}
	if got := p.Resolve(context.Background(), "10.1000/x"); got != "" {
		t.Errorf("Resolve = %q, want empty on 500", got)
	}
}
