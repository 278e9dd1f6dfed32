package mfapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetNAV_LatestAndPrevious(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meta":{"fund_house":"Axis Mutual Fund","scheme_name":"Axis Bluechip Fund","scheme_code":120503},
			"data":[{"date":"17-10-2026","nav":"55.1200"},{"date":"16-10-2026","nav":"55.0000"}],"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	nav, err := client.GetNAV(context.Background(), "120503")
	if err != nil {
		t.Fatalf("GetNAV returned error: %v", err)
	}

	if gotPath != "/mf/120503" {
		t.Errorf("path = %q, want /mf/120503", gotPath)
	}
	if nav.Price != 55.12 {
		t.Errorf("Price = %v, want 55.12", nav.Price)
	}
	if nav.Currency != "INR" {
		t.Errorf("Currency = %q, want INR", nav.Currency)
	}
	if nav.PreviousClose == nil || *nav.PreviousClose != 55 {
		t.Fatalf("PreviousClose = %v, want 55", nav.PreviousClose)
	}
	if d := *nav.Change - 0.12; d > 1e-9 || d < -1e-9 {
		t.Errorf("Change = %v, want 0.12", *nav.Change)
	}
}

func TestGetNAV_SingleEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"date":"17-10-2026","nav":"10.5"}],"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	nav, err := NewClient(WithBaseURL(srv.URL)).GetNAV(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetNAV returned error: %v", err)
	}
	if nav.PreviousClose != nil || nav.Change != nil {
		t.Error("change fields should be nil with a single NAV")
	}
}

func TestGetNAV_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"meta":{},"data":[],"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).GetNAV(context.Background(), "999999")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v, want 404 APIError", err)
	}
}

func TestGetNAV_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).GetNAV(context.Background(), "120503")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Errorf("err = %v, want 502 APIError", err)
	}
}

func TestGetNAV_BadNAV(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"date":"17-10-2026","nav":"N.A."}]}`))
	}))
	defer srv.Close()

	if _, err := NewClient(WithBaseURL(srv.URL)).GetNAV(context.Background(), "1"); err == nil {
		t.Error("expected error for unparsable NAV")
	}
}

func TestSearchSchemes_CapsAndMaps(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"schemeCode":120503,"schemeName":"Axis Bluechip Fund - Direct Plan - Growth"},
			{"schemeCode":112277,"schemeName":"Axis Bluechip Fund - Regular Plan - Growth"},
			{"schemeCode":120504,"schemeName":"Axis Bluechip Fund - Direct Plan - IDCW"}
		]`))
	}))
	defer srv.Close()

	matches, err := NewClient(WithBaseURL(srv.URL)).SearchSchemes(context.Background(), "axis bluechip", 2)
	if err != nil {
		t.Fatalf("SearchSchemes returned error: %v", err)
	}
	if gotPath != "/mf/search" || gotQuery != "axis bluechip" {
		t.Errorf("request = %s?q=%s", gotPath, gotQuery)
	}
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Ticker != "120503" || matches[0].Type != "MUTUAL_FUND" {
		t.Errorf("matches[0] = %+v", matches[0])
	}
}

func TestGetScheme_NameAndFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/mf/120503":
			w.Write([]byte(`{"meta":{"fund_house":"Axis Mutual Fund","scheme_name":"Axis Bluechip Fund","scheme_code":120503},"data":[]}`))
		case "/mf/1":
			w.Write([]byte(`{"meta":{"fund_house":"Axis Mutual Fund"},"data":[]}`))
		default:
			w.Write([]byte(`{"meta":{},"data":[]}`))
		}
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	match, err := client.GetScheme(context.Background(), "120503")
	if err != nil {
		t.Fatalf("GetScheme returned error: %v", err)
	}
	if match.Name != "Axis Bluechip Fund" || match.Ticker != "120503" {
		t.Errorf("match = %+v", match)
	}

	match, err = client.GetScheme(context.Background(), "1")
	if err != nil || match.Name != "Axis Mutual Fund" {
		t.Errorf("fund house fallback: match = %+v err = %v", match, err)
	}

	_, err = client.GetScheme(context.Background(), "999999")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v, want 404 APIError", err)
	}
}
