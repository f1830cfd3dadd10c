package craigslist

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"leadengine/internal/config"
)

const samplePage = `<html><body><ul>
<li class="result-row">
  <time class="result-date" datetime="2026-08-30 14:02"></time>
  <a href="https://dallas.craigslist.org/dal/reb/d/house/7700000001.html" class="result-title">Handyman special   4112 Elm St.</a>
  <span class="result-price">$185,000</span>
</li>
<li class="result-row">
  <a href="https://dallas.craigslist.org/dal/reb/d/lot/7700000002.html" class="result-title">Vacant lot near downtown</a>
</li>
<li class="result-row">
  <a href="https://dallas.craigslist.org/dal/reb/d/x/7700000003.html" class="result-title">   </a>
  <span class="result-price">$90,000</span>
</li>
</ul></body></html>`

func TestFetchParsesRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := New(config.CraigslistSource{Region: "dallas", City: "Dallas", State: "TX", Limit: 10}, nil)
	s.baseURL = srv.URL

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Source != "craigslist" {
		t.Errorf("source = %q", res.Source)
	}
	if len(res.Leads) != 2 {
		t.Fatalf("got %d leads, want 2 (blank title skipped)", len(res.Leads))
	}

	first := res.Leads[0]
	if first.Title != "Handyman special 4112 Elm St" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Price == nil || *first.Price != 185000 {
		t.Errorf("price = %v", first.Price)
	}
	if first.City != "Dallas" || first.State != "TX" {
		t.Errorf("city/state = %q/%q", first.City, first.State)
	}
	if first.DatePosted == nil {
		t.Fatal("date posted not parsed")
	}
	want := time.Date(2026, 8, 30, 14, 2, 0, 0, time.UTC)
	if !first.DatePosted.Equal(want) {
		t.Errorf("date posted = %v, want %v", first.DatePosted, want)
	}

	second := res.Leads[1]
	if second.Price != nil {
		t.Errorf("priceless row should carry nil price, got %v", *second.Price)
	}
}

func TestFetchHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	s := New(config.CraigslistSource{Region: "dallas", Limit: 1}, nil)
	s.baseURL = srv.URL

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(res.Leads) != 1 {
		t.Errorf("got %d leads, want 1", len(res.Leads))
	}
}

func TestFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(config.CraigslistSource{Region: "dallas"}, nil)
	s.baseURL = srv.URL

	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("expected error on 403")
	}
}
