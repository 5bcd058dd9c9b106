package locamoi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"locamoi-scraper/utils"
)

func testFetcher() *Fetcher {
	return NewFetcher(5*time.Second, utils.NewLogger())
}

func TestFetchPageSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("unexpected User-Agent: %q", ua)
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	body, ok := testFetcher().FetchPage(srv.URL)
	if !ok {
		t.Fatal("expected ok for a 200 response")
	}
	if body != "<html>ok</html>" {
		t.Errorf("body: got %q", body)
	}
}

func TestFetchPageNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, ok := testFetcher().FetchPage(srv.URL); ok {
		t.Error("expected not-ok for a 404 response")
	}
}

func TestFetchPageTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	if _, ok := testFetcher().FetchPage(srv.URL); ok {
		t.Error("expected not-ok for a transport error")
	}
}

func TestBuildSearchURL(t *testing.T) {
	tests := []struct {
		city, slug string
		page       int
		want       string
	}{
		{"paris", "house", 1, "https://locamoi.fr/location?location=paris&property_types=house"},
		{"paris", "house", 2, "https://locamoi.fr/location?location=paris&page=2&property_types=house"},
		{"evry-courcouronnes", "student-apartment", 1,
			"https://locamoi.fr/location?location=evry-courcouronnes&property_types=student-apartment"},
	}

	for _, tt := range tests {
		got := buildSearchURL("https://locamoi.fr", tt.city, tt.slug, tt.page)
		if got != tt.want {
			t.Errorf("buildSearchURL(%q, %q, %d) = %q; want %q",
				tt.city, tt.slug, tt.page, got, tt.want)
		}
	}
}
