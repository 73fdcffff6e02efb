package probe

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestTagsUnmarshalKeepsOrder(t *testing.T) {
	var tags Tags
	payload := `{"TITLE":"One","artist":"Two","track":3,"title":"Ignored"}`
	if err := json.Unmarshal([]byte(payload), &tags); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(tags) != 4 {
		t.Fatalf("expected 4 tags, got %d", len(tags))
	}
	if tags[0].Key != "TITLE" || tags[3].Key != "title" {
		t.Fatalf("order not preserved: %+v", tags)
	}
	if v, _ := tags.Get("title"); v != "One" {
		t.Fatalf("expected first match, got %q", v)
	}
	if v := tags.Value("TRACK"); v != "3" {
		t.Fatalf("expected numeric value as text, got %q", v)
	}
}

func TestTagsMarshalRoundTrip(t *testing.T) {
	tags := Tags{{Key: "b", Value: "2"}, {Key: "a", Value: "1"}}
	data, err := json.Marshal(tags)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"b":"2","a":"1"}` {
		t.Fatalf("unexpected json %s", data)
	}
}

func TestTagsSetAndAdd(t *testing.T) {
	var tags Tags
	tags.Add("Genre", "Jazz")
	tags.Add("genre", "Rock")
	if tags.Value("genre") != "Jazz" || len(tags) != 1 {
		t.Fatalf("Add should keep first value: %+v", tags)
	}
	tags.Set("GENRE", "Blues")
	if tags.Value("genre") != "Blues" || len(tags) != 1 {
		t.Fatalf("Set should replace: %+v", tags)
	}
}

type stubProber struct {
	container *Container
	err       error
	calls     int
}

func (s *stubProber) Probe(context.Context, string) (*Container, error) {
	s.calls++
	return s.container, s.err
}

func TestAutoFallsBackOnUnsupported(t *testing.T) {
	primary := &stubProber{err: ErrUnsupported}
	fallback := &stubProber{container: &Container{FormatName: "wav"}}
	c, err := Auto{Primary: primary, Fallback: fallback}.Probe(context.Background(), "/x.wav")
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if c.FormatName != "wav" || fallback.calls != 1 {
		t.Fatalf("expected fallback result, got %+v", c)
	}
}

func TestAutoKeepsPrimaryErrors(t *testing.T) {
	boom := errors.New("corrupt")
	fallback := &stubProber{container: &Container{}}
	_, err := Auto{Primary: &stubProber{err: boom}, Fallback: fallback}.Probe(context.Background(), "/x.flac")
	if !errors.Is(err, boom) {
		t.Fatalf("expected primary error, got %v", err)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback should not run for real failures")
	}
}

func TestContainerStreamCounts(t *testing.T) {
	c := &Container{Streams: []Stream{
		{MediaType: MediaAudio},
		{MediaType: MediaVideo, Disposition: Disposition{"attached_pic": 1}},
		{MediaType: MediaAudio},
		{MediaType: ParseMediaType("subtitle")},
	}}
	if c.AudioStreamCount() != 2 || c.VideoStreamCount() != 1 {
		t.Fatalf("unexpected counts %d/%d", c.AudioStreamCount(), c.VideoStreamCount())
	}
	if !c.Streams[1].Disposition.AttachedPic() {
		t.Fatal("expected attached picture")
	}
	if c.Streams[3].MediaType != MediaOther {
		t.Fatal("subtitle should classify as other")
	}
}
