package icy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFirstEntry(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr bool
	}{
		{
			name: "m3u",
			doc:  "#EXTM3U\n#EXTINF:-1,Radio\nhttp://stream.example/live?sid=1\n",
			want: "http://stream.example/live?sid=1",
		},
		{
			name: "pls",
			doc:  "[playlist]\nNumberOfEntries=2\nFile1=http://a.example/one\nTitle1=One\nFile2=http://b.example/two\n",
			want: "http://a.example/one",
		},
		{
			name: "relative",
			doc:  "\ufeff#EXTM3U\nlive.mp3\n",
			want: "live.mp3",
		},
		{
			name:    "empty",
			doc:     "#EXTM3U\n\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FirstEntry(strings.NewReader(tt.doc))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("FirstEntry: %v", err)
			}
			if got != tt.want {
				t.Fatalf("FirstEntry = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsPlaylist(t *testing.T) {
	tests := map[string]bool{
		"http://x.example/radio.m3u":      true,
		"http://x.example/radio.M3U8?a=1": true,
		"http://x.example/listen.pls":     true,
		"http://x.example/stream":         false,
		"http://x.example/stream.mp3":     false,
	}
	for in, want := range tests {
		if got := IsPlaylist(in); got != want {
			t.Errorf("IsPlaylist(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestResolvePlaylist(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/radio.m3u", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("#EXTM3U\nlive.mp3\n"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := NewClient(WithHTTPClient(srv.Client()))
	got, err := client.ResolvePlaylist(context.Background(), srv.URL+"/radio.m3u")
	if err != nil {
		t.Fatalf("ResolvePlaylist: %v", err)
	}
	if got != srv.URL+"/live.mp3" {
		t.Fatalf("ResolvePlaylist = %q", got)
	}

	direct := srv.URL + "/stream"
	got, err = client.ResolvePlaylist(context.Background(), direct)
	if err != nil || got != direct {
		t.Fatalf("ResolvePlaylist(direct) = %q, %v", got, err)
	}
}
