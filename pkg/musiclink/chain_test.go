package musiclink

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingObserver struct {
	calls []string
}

func (o *recordingObserver) ObserveStrategy(platform Platform, strategy string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	o.calls = append(o.calls, string(platform)+"/"+strategy+"/"+outcome)
}

func TestChain_Run(t *testing.T) {
	t.Helper()

	found := &TrackMetadata{ID: "1", Title: "Song", Artist: "Artist"}
	fail := func(context.Context, string) (*TrackMetadata, error) { return nil, errors.New("boom") }
	empty := func(context.Context, string) (*TrackMetadata, error) { return nil, nil }
	panics := func(context.Context, string) (*TrackMetadata, error) { panic("kaboom") }
	succeed := func(context.Context, string) (*TrackMetadata, error) { return found, nil }

	tests := []struct {
		name         string
		strategies   []Strategy
		wantStrategy string
		wantErr      bool
		wantCalls    []string
	}{
		{
			name:         "first strategy succeeds",
			strategies:   []Strategy{{"a", succeed}, {"b", fail}},
			wantStrategy: "a",
			wantCalls:    []string{"tidal/a/ok"},
		},
		{
			name:         "error, empty result and panic all advance",
			strategies:   []Strategy{{"a", fail}, {"b", empty}, {"c", panics}, {"d", succeed}},
			wantStrategy: "d",
			wantCalls:    []string{"tidal/a/error", "tidal/b/error", "tidal/c/error", "tidal/d/ok"},
		},
		{
			name:       "exhausted chain",
			strategies: []Strategy{{"a", fail}, {"b", empty}},
			wantErr:    true,
			wantCalls:  []string{"tidal/a/error", "tidal/b/error"},
		},
		{
			name:      "no strategies",
			wantErr:   true,
			wantCalls: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observer := &recordingObserver{}
			chain := NewChain(PlatformTidal, Options{Observer: observer}, tt.strategies...)

			meta, strategy, err := chain.Run(context.Background(), "42")
			if tt.wantErr {
				if !errors.Is(err, ErrTrackNotFound) {
					t.Errorf("Run() error = %v, want ErrTrackNotFound", err)
				}
				if meta != nil {
					t.Errorf("Run() meta = %v, want nil", meta)
				}
			} else {
				if err != nil {
					t.Fatalf("Run() error = %v", err)
				}
				if meta != found {
					t.Errorf("Run() meta = %v, want %v", meta, found)
				}
				if strategy != tt.wantStrategy {
					t.Errorf("Run() strategy = %q, want %q", strategy, tt.wantStrategy)
				}
			}

			if len(observer.calls) != len(tt.wantCalls) {
				t.Fatalf("observer calls = %v, want %v", observer.calls, tt.wantCalls)
			}
			for i := range tt.wantCalls {
				if observer.calls[i] != tt.wantCalls[i] {
					t.Errorf("observer call %d = %q, want %q", i, observer.calls[i], tt.wantCalls[i])
				}
			}
		})
	}
}

func TestChain_AttemptTimeout(t *testing.T) {
	t.Helper()

	slow := func(ctx context.Context, _ string) (*TrackMetadata, error) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
			return &TrackMetadata{ID: "late"}, nil
		}
	}
	fast := func(context.Context, string) (*TrackMetadata, error) {
		return &TrackMetadata{ID: "fast"}, nil
	}

	chain := NewChain(PlatformDeezer, Options{StrategyTimeout: 20 * time.Millisecond},
		Strategy{"slow", slow}, Strategy{"fast", fast})

	start := time.Now()
	meta, strategy, err := chain.Run(context.Background(), "1")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strategy != "fast" || meta.ID != "fast" {
		t.Errorf("Run() = %v via %q, want fast", meta, strategy)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Run() took %v, timeout not applied", elapsed)
	}
}
