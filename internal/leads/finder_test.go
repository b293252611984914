package leads

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(body string) *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}
}

func newTestFinder(mapsKey string, rt roundTripFunc) *Finder {
	client := &http.Client{Transport: rt}
	return NewFinder("test-key", mapsKey, WithHTTPClient(client))
}

func TestFindLeadsNotConfigured(t *testing.T) {
	f := NewFinder("", "")
	leads, err := f.FindLeads(context.Background(), "Cluj", "dentist", 3)
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if len(leads) != 0 {
		t.Fatalf("expected empty set, got %d leads", len(leads))
	}
}

func TestFindLeadsFiltersAndPaginates(t *testing.T) {
	pageOne := `{"local_results":[
		{"title":"Dentist A","phone":"0722 111 222","address":"Cluj","place_id":"p1","rating":4.8,"reviews":120},
		{"title":"Dentist B","phone":"0722 333 444","website":"https://dentist-b.ro","address":"Cluj"},
		{"title":"Dentist C","address":"Cluj"},
		{"title":"Dentist D","phone":"0722 555 666","address":"Cluj"},
		{"title":"Dentist E","phone":"0722 000 111","website":"https://dentist-e.ro","address":"Cluj"}
	]}`
	pageTwo := `{"local_results":[
		{"title":"Dentist F","phone":"0722 777 888","website":"https://f.ro","address":"Cluj"},
		{"title":"Dentist G","phone":"0722 999 000","address":"Cluj"},
		{"title":"Dentist H","website":"https://h.ro","address":"Cluj"},
		{"title":"Dentist I","address":"Cluj"},
		{"title":"Dentist J","address":"Cluj"}
	]}`
	reviews := `{"reviews":[
		{"snippet":"Servicii excelente, personal foarte amabil si profesionist.","rating":5,"user":{"name":"Maria"}},
		{"snippet":"scurt","rating":5,"user":{"name":"Ion"}},
		{"snippet":"O experienta dezamagitoare, nu recomand nimanui acest loc.","rating":2,"user":{"name":"Dan"}}
	]}`

	var searchCalls int
	f := newTestFinder("maps-key", func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		switch q.Get("engine") {
		case "google_maps":
			searchCalls++
			if q.Get("start") == "0" {
				return jsonResponse(pageOne), nil
			}
			return jsonResponse(pageTwo), nil
		case "google_maps_reviews":
			return jsonResponse(reviews), nil
		}
		t.Fatalf("unexpected engine: %s", q.Get("engine"))
		return nil, nil
	})

	leads, err := f.FindLeads(context.Background(), "Cluj", "dentist", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(leads) != 3 {
		t.Fatalf("expected exactly 3 leads, got %d", len(leads))
	}
	if searchCalls != 2 {
		t.Fatalf("expected 2 search pages, got %d", searchCalls)
	}

	for _, lead := range leads {
		if lead.Phone == "" {
			t.Fatalf("lead %s missing phone", lead.Name)
		}
		if lead.Reviews == nil {
			t.Fatalf("lead %s missing reviews slice", lead.Name)
		}
	}

	first := leads[0]
	if first.Name != "Dentist A" {
		t.Fatalf("unexpected first lead: %s", first.Name)
	}
	if first.Phone != "+40722111222" {
		t.Fatalf("expected E.164 phone, got %s", first.Phone)
	}
	if len(first.Reviews) != 1 {
		t.Fatalf("expected short and low-rated reviews filtered, got %d", len(first.Reviews))
	}
	if first.Reviews[0].Author != "Maria" || first.Reviews[0].Rating != 5 {
		t.Fatalf("unexpected review: %+v", first.Reviews[0])
	}
	if first.StreetViewURL == nil || !strings.Contains(*first.StreetViewURL, "maps.googleapis.com") {
		t.Fatalf("expected street view url, got %v", first.StreetViewURL)
	}

	// leads without a place id carry an empty review list
	second := leads[1]
	if second.Name != "Dentist D" || len(second.Reviews) != 0 {
		t.Fatalf("unexpected second lead: %+v", second)
	}
}

func TestFindLeadsTruncatesOnPageError(t *testing.T) {
	var call int
	f := newTestFinder("", func(req *http.Request) (*http.Response, error) {
		call++
		if call == 1 {
			return jsonResponse(`{"local_results":[{"title":"Dentist A","phone":"0722 111 222","address":"Cluj"}]}`), nil
		}
		return nil, errors.New("network down")
	})

	leads, err := f.FindLeads(context.Background(), "Cluj", "dentist", 5)
	if err != nil {
		t.Fatalf("expected truncation, got error: %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 lead before the failure, got %d", len(leads))
	}
	if leads[0].StreetViewURL != nil {
		t.Fatalf("expected no street view without a maps key")
	}
}

func TestFindLeadsReviewFailureYieldsEmptyList(t *testing.T) {
	f := newTestFinder("", func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("engine") == "google_maps_reviews" {
			return nil, errors.New("reviews down")
		}
		return jsonResponse(`{"local_results":[{"title":"Dentist A","phone":"0722111222","address":"Cluj","place_id":"p1"}]}`), nil
	})

	leads, err := f.FindLeads(context.Background(), "Cluj", "dentist", 1)
	if err != nil || len(leads) != 1 {
		t.Fatalf("unexpected result: %v %d", err, len(leads))
	}
	if len(leads[0].Reviews) != 0 {
		t.Fatalf("expected empty review list, got %+v", leads[0].Reviews)
	}
}

func TestFindLeadsStopsOnEmptyPage(t *testing.T) {
	var calls int
	f := newTestFinder("", func(req *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(`{"local_results":[]}`), nil
	})
	leads, err := f.FindLeads(context.Background(), "Cluj", "dentist", 5)
	if err != nil || len(leads) != 0 {
		t.Fatalf("unexpected result: %v %d", err, len(leads))
	}
	if calls != 1 {
		t.Fatalf("expected a single call for an empty page, got %d", calls)
	}
}

func TestNormalizePhoneKeepsRawOnFailure(t *testing.T) {
	if got := normalizePhone("nu-e-telefon", "RO"); got != "nu-e-telefon" {
		t.Fatalf("expected raw value kept, got %s", got)
	}
	if got := normalizePhone("0722 111 222", "RO"); got != "+40722111222" {
		t.Fatalf("expected E.164, got %s", got)
	}
}

func TestTruncateReviewKeepsRunesWhole(t *testing.T) {
	// One ASCII byte up front shifts every diacritic to an odd offset,
	// so the byte cap lands in the middle of a rune.
	long := "x" + strings.Repeat("ă", 200)
	got := truncateReview(long)
	if len(got) > maxReviewLen {
		t.Fatalf("expected at most %d bytes, got %d", maxReviewLen, len(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncated review is not valid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) != maxReviewLen-1 {
		t.Fatalf("expected cut backed off to %d bytes, got %d", maxReviewLen-1, len(got))
	}

	short := "mancare buna, personal prietenos"
	if got := truncateReview(short); got != short {
		t.Fatalf("short review must pass through unchanged, got %q", got)
	}
}

func TestSampleLeads(t *testing.T) {
	samples := SampleLeads()
	if len(samples) == 0 {
		t.Fatalf("expected sample fixtures")
	}
	for _, lead := range samples {
		if lead.Phone == "" || lead.Name == "" {
			t.Fatalf("sample lead must qualify as a lead: %+v", lead)
		}
	}
}
