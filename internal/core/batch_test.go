package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"unitune/pkg/musiclink"
)

func TestResolver_ResolveBatchPartialSuccess(t *testing.T) {
	catalog := &fakeCatalog{
		tracks: map[string]*musiclink.TrackMetadata{
			"3n3Ppam7vgaVa1iaRUc9Lp": mrBrightside(),
			"4PTG3Z6ehGkBFwjybzWkR8": rickRoll(),
		},
		match: rickRoll(),
	}
	deezerTrack := deezerRick()
	resolver := testResolver(catalog, nil, map[string]*musiclink.TrackMetadata{"3135556": &deezerTrack})

	urls := []string{
		"https://open.spotify.com/track/3n3Ppam7vgaVa1iaRUc9Lp",
		"not a link at all",
		"https://www.deezer.com/track/3135556",
		"https://example.com/track/1",
		"spotify:track:4PTG3Z6ehGkBFwjybzWkR8",
	}

	resp, err := resolver.ResolveBatch(context.Background(), urls)
	if err != nil {
		t.Fatalf("ResolveBatch() error = %v", err)
	}

	if resp.SuccessCount != 3 || resp.FailedCount != 2 {
		t.Fatalf("counts = %d/%d, want 3/2", resp.SuccessCount, resp.FailedCount)
	}

	wantTracks := []struct {
		url   string
		title string
	}{
		{urls[0], "Mr. Brightside"},
		{urls[2], "Never Gonna Give You Up"},
		{urls[4], "Never Gonna Give You Up"},
	}
	for i, want := range wantTracks {
		got := resp.Tracks[i]
		if got.OriginalURL != want.url || got.Title != want.title {
			t.Errorf("tracks[%d] = %s %q, want %s %q", i, got.OriginalURL, got.Title, want.url, want.title)
		}
		if len(got.Links) == 0 {
			t.Errorf("tracks[%d] has no links", i)
		}
	}

	wantErrors := []BatchError{
		{Index: 1, URL: urls[1], Error: "Unsupported URL format"},
		{Index: 3, URL: urls[3], Error: "Unsupported URL format"},
	}
	for i, want := range wantErrors {
		if resp.Errors[i] != want {
			t.Errorf("errors[%d] = %+v, want %+v", i, resp.Errors[i], want)
		}
	}
}

func TestResolver_ResolveBatchTrackNotFound(t *testing.T) {
	resolver := testResolver(&fakeCatalog{}, nil, nil)

	resp, err := resolver.ResolveBatch(context.Background(), []string{"https://tidal.com/track/1"})
	if err != nil {
		t.Fatalf("ResolveBatch() error = %v", err)
	}
	if len(resp.Errors) != 1 || resp.Errors[0].Error != "Track not found" {
		t.Errorf("errors = %+v, want a single track not found entry", resp.Errors)
	}
	if resp.Tracks == nil {
		t.Error("tracks should be an empty list, not nil")
	}
}

func TestResolver_ResolveBatchRecoversPanics(t *testing.T) {
	catalog := &fakeCatalog{
		tracks: map[string]*musiclink.TrackMetadata{"4PTG3Z6ehGkBFwjybzWkR8": rickRoll()},
		panics: true,
	}
	deezerTrack := deezerRick()
	resolver := testResolver(catalog, nil, map[string]*musiclink.TrackMetadata{"3135556": &deezerTrack})

	urls := []string{
		"https://www.deezer.com/track/3135556",
		"spotify:track:4PTG3Z6ehGkBFwjybzWkR8",
	}
	resp, err := resolver.ResolveBatch(context.Background(), urls)
	if err != nil {
		t.Fatalf("ResolveBatch() error = %v", err)
	}

	if resp.SuccessCount != 1 || resp.FailedCount != 1 {
		t.Fatalf("counts = %d/%d, want 1/1", resp.SuccessCount, resp.FailedCount)
	}
	want := BatchError{Index: 0, URL: urls[0], Error: "Internal server error"}
	if resp.Errors[0] != want {
		t.Errorf("errors[0] = %+v, want %+v", resp.Errors[0], want)
	}
	if resp.Tracks[0].OriginalURL != urls[1] {
		t.Errorf("tracks[0] = %s, want %s", resp.Tracks[0].OriginalURL, urls[1])
	}
}

func TestResolver_ResolveBatchValidation(t *testing.T) {
	resolver := testResolver(&fakeCatalog{}, nil, nil)

	tooMany := make([]string, DefaultMaxBatchSize+1)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("spotify:track:%022d", i)
	}

	tests := []struct {
		name        string
		urls        []string
		wantMessage string
	}{
		{name: "empty", urls: nil, wantMessage: "Invalid request: urls array required"},
		{name: "too many", urls: tooMany, wantMessage: "Maximum 10 URLs allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.ResolveBatch(context.Background(), tt.urls)
			var coreErr *Error
			if !errors.As(err, &coreErr) {
				t.Fatalf("ResolveBatch() error = %v, want *core.Error", err)
			}
			if coreErr.StatusCode() != http.StatusBadRequest {
				t.Errorf("StatusCode() = %d, want 400", coreErr.StatusCode())
			}
			if coreErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", coreErr.Message, tt.wantMessage)
			}
		})
	}
}
