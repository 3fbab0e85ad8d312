// Cinematch - Movie Recommendation Engine and API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestListRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request ListRequest
		wantErr bool
	}{
		{"minimum", ListRequest{N: 1}, false},
		{"typical", ListRequest{N: 20}, false},
		{"maximum", ListRequest{N: 100}, false},
		{"zero", ListRequest{N: 0}, true},
		{"negative", ListRequest{N: -1}, true},
		{"over maximum", ListRequest{N: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := validateRequest(&tt.request)
			if (apiErr != nil) != tt.wantErr {
				t.Errorf("validateRequest(%+v) error = %v, wantErr %v", tt.request, apiErr, tt.wantErr)
			}
			if apiErr != nil && apiErr.Code != ErrCodeValidationError {
				t.Errorf("error code = %s, want %s", apiErr.Code, ErrCodeValidationError)
			}
		})
	}
}

func TestSearchRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request SearchRequest
		wantErr bool
	}{
		{"empty query", SearchRequest{Query: "", N: 10}, false},
		{"typical", SearchRequest{Query: "matrix", N: 10}, false},
		{"max length query", SearchRequest{Query: strings.Repeat("a", 200), N: 10}, false},
		{"query too long", SearchRequest{Query: strings.Repeat("a", 201), N: 10}, true},
		{"bad n", SearchRequest{Query: "ok", N: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := validateRequest(&tt.request)
			if (apiErr != nil) != tt.wantErr {
				t.Errorf("validateRequest(%+v) error = %v, wantErr %v", tt.request, apiErr, tt.wantErr)
			}
		})
	}
}

func TestGenreRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		request GenreRequest
		wantErr bool
	}{
		{"empty genre", GenreRequest{Genre: "", N: 20}, false},
		{"typical", GenreRequest{Genre: "Film-Noir", N: 20}, false},
		{"genre too long", GenreRequest{Genre: strings.Repeat("g", 101), N: 20}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := validateRequest(&tt.request)
			if (apiErr != nil) != tt.wantErr {
				t.Errorf("validateRequest(%+v) error = %v, wantErr %v", tt.request, apiErr, tt.wantErr)
			}
		})
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{"missing uses default", "", 20, false},
		{"valid value", "n=7", 7, false},
		{"negative parses", "n=-3", -3, false},
		{"non-integer", "n=abc", 0, true},
		{"float", "n=1.5", 0, true},
		{"empty value uses default", "n=", 20, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/x?"+tt.query, nil)
			got, err := queryInt(r, "n", 20)
			if (err != nil) != tt.wantErr {
				t.Fatalf("queryInt error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("queryInt = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		want    int
		wantErr bool
	}{
		{"valid", "42", 42, false},
		{"non-integer", "abc", 0, true},
		{"zero", "0", 0, true},
		{"negative", "-7", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got int
			var gotErr error

			r := chi.NewRouter()
			r.Get("/movies/{movieID}", func(w http.ResponseWriter, req *http.Request) {
				got, gotErr = pathID(req, "movieID")
			})

			req := httptest.NewRequest(http.MethodGet, "/movies/"+tt.param, nil)
			r.ServeHTTP(httptest.NewRecorder(), req)

			if (gotErr != nil) != tt.wantErr {
				t.Fatalf("pathID error = %v, wantErr %v", gotErr, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("pathID = %d, want %d", got, tt.want)
			}
		})
	}
}
