package zillowfsbo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"leadengine/internal/config"
)

const sampleBody = `{"props":[
  {"addressStreet":"9201 Forest Ln","addressCity":"Dallas","addressState":"TX","addressZipcode":"75243",
   "price":240000,"bedrooms":3,"bathrooms":2,"livingArea":1650,
   "latitude":32.91,"longitude":-96.74,"detailUrl":"/homedetails/9201-forest-ln/123_zpid/"},
  {"address":"","price":100000},
  {"addressStreet":"18 Oak Cliff Blvd","addressCity":"Dallas","addressState":"TX","addressZipcode":"75208"}
]}`

func TestFetchMapsProps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "k" {
			t.Errorf("missing rapidapi key header")
		}
		if r.URL.Query().Get("listing_type") != "by_owner" {
			t.Errorf("listing_type = %q", r.URL.Query().Get("listing_type"))
		}
		if r.URL.Query().Get("location") != "75243" {
			t.Errorf("location = %q, zip should win over city", r.URL.Query().Get("location"))
		}
		w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	s := New(config.ZillowSource{Location: "Dallas, TX", Zip: "75243", Limit: 10}, "k", nil)
	s.baseURL = srv.URL

	res, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(res.Leads) != 2 {
		t.Fatalf("got %d leads, want 2 (addressless prop skipped)", len(res.Leads))
	}

	first := res.Leads[0]
	if first.Title != "9201 Forest Ln" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Price == nil || *first.Price != 240000 {
		t.Errorf("price = %v", first.Price)
	}
	if first.Latitude == nil || *first.Latitude != 32.91 {
		t.Errorf("latitude = %v", first.Latitude)
	}
	if first.Link != "https://www.zillow.com/homedetails/9201-forest-ln/123_zpid/" {
		t.Errorf("link = %q", first.Link)
	}
	if first.Description != "3 bd, 2.0 ba, 1650 sqft" {
		t.Errorf("description = %q", first.Description)
	}

	second := res.Leads[1]
	if second.Price != nil {
		t.Errorf("missing price should stay nil, got %v", *second.Price)
	}
}

func TestFetchRequiresKey(t *testing.T) {
	s := New(config.ZillowSource{Location: "Dallas, TX"}, "", nil)
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("expected error without an api key")
	}
}
