package geocode

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jcmacallan-svg/ww1/internal/domain"
)

const testUA = "tripkit-test/1.0"

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != testUA {
			t.Errorf("expected user agent %q, got %q", testUA, ua)
		}
		q := r.URL.Query()
		if q.Get("format") != "json" || q.Get("limit") != "1" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("q") != "Menin Gate, Ieper, Belgium" {
			t.Errorf("unexpected search text: %q", q.Get("q"))
		}
		fmt.Fprint(w, `[{"lat":"50.8523","lon":"2.8913","display_name":"Menenpoort, Ieper"}]`)
	}))
	defer srv.Close()

	n, err := NewNominatim(srv.URL, testUA)
	if err != nil {
		t.Fatalf("new nominatim: %v", err)
	}

	coord, ok, err := n.Geocode(context.Background(), "Menin Gate, Ieper, Belgium")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if !ok {
		t.Fatal("expected a match")
	}
	want := domain.Coordinates{Lat: 50.8523, Lon: 2.8913}
	if coord != want {
		t.Fatalf("expected %+v, got %+v", want, coord)
	}
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	n, err := NewNominatim(srv.URL, testUA)
	if err != nil {
		t.Fatalf("new nominatim: %v", err)
	}

	_, ok, err := n.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if ok {
		t.Fatal("expected no match")
	}
}

func TestGeocodeRetriesRateLimits(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `[{"lat":"51.0","lon":"3.0"}]`)
	}))
	defer srv.Close()

	n, err := NewNominatim(srv.URL, testUA)
	if err != nil {
		t.Fatalf("new nominatim: %v", err)
	}

	_, ok, err := n.Geocode(context.Background(), "Diksmuide")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if !ok {
		t.Fatal("expected a match after retry")
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestGeocodeCollapsesWhitespace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Menin Gate" {
			t.Errorf("expected collapsed query, got %q", got)
		}
		fmt.Fprint(w, `[{"lat":"50.8523","lon":"2.8913"}]`)
	}))
	defer srv.Close()

	n, err := NewNominatim(srv.URL, testUA)
	if err != nil {
		t.Fatalf("new nominatim: %v", err)
	}

	if _, _, err := n.Geocode(context.Background(), "  Menin   Gate "); err != nil {
		t.Fatalf("geocode: %v", err)
	}
}

func TestGeocodeEmptyQuery(t *testing.T) {
	n, err := NewNominatim("http://unused.invalid", testUA)
	if err != nil {
		t.Fatalf("new nominatim: %v", err)
	}
	if _, _, err := n.Geocode(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for an empty query")
	}
}
