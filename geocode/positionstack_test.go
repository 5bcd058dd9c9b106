package geocode

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func clientFor(srv *httptest.Server) *Client {
	c := NewClient("test-key", "FR", 5*time.Second)
	c.endpoint = srv.URL
	return c
}

func TestForwardSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("access_key") != "test-key" {
			t.Errorf("access_key: got %q", q.Get("access_key"))
		}
		if q.Get("limit") != "1" {
			t.Errorf("limit: got %q", q.Get("limit"))
		}
		if q.Get("country") != "FR" {
			t.Errorf("country: got %q", q.Get("country"))
		}
		fmt.Fprint(w, `{"data":[{"latitude":48.8566,"longitude":2.3522}]}`)
	}))
	defer srv.Close()

	coords, ok := clientFor(srv).Forward("10 Rue de la Paix, Paris")
	if !ok {
		t.Fatal("expected resolution")
	}
	if coords.Lat != 48.8566 || coords.Lon != 2.3522 {
		t.Errorf("coords: got %+v", coords)
	}
}

func TestForwardNumericStringCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"latitude":"45.75","longitude":"4.85"}]}`)
	}))
	defer srv.Close()

	coords, ok := clientFor(srv).Forward("Lyon")
	if !ok {
		t.Fatal("numeric strings should resolve")
	}
	if coords.Lat != 45.75 || coords.Lon != 4.85 {
		t.Errorf("coords: got %+v", coords)
	}
}

func TestForwardUnresolvedOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"empty result set", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[]}`)
		}},
		{"non-numeric coordinates", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[{"latitude":"north","longitude":"east"}]}`)
		}},
		{"missing coordinates", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":[{}]}`)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			if _, ok := clientFor(srv).Forward("somewhere"); ok {
				t.Error("expected unresolved")
			}
		})
	}
}

func TestForwardTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	if _, ok := clientFor(srv).Forward("somewhere"); ok {
		t.Error("expected unresolved on transport error")
	}
}
