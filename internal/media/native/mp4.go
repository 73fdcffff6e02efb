package native

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/abema/go-mp4"

	"mediascan/internal/media/probe"
)

// ilstKeys maps iTunes item atoms onto ffmpeg's mov demuxer names. stik is
// kept verbatim.
var ilstKeys = map[string]string{
	"\xa9nam": "title",
	"\xa9ART": "artist",
	"aART":    "album_artist",
	"\xa9alb": "album",
	"\xa9gen": "genre",
	"gnre":    "genre",
	"\xa9wrt": "composer",
	"\xa9grp": "grouping",
	"\xa9cmt": "comment",
	"desc":    "description",
	"ldes":    "synopsis",
	"\xa9day": "date",
	"\xa9too": "encoder",
	"\xa9lyr": "lyrics",
	"trkn":    "track",
	"disk":    "disc",
	"cpil":    "compilation",
	"pcst":    "podcast",
	"catg":    "category",
	"keyw":    "keywords",
	"purd":    "purchase_date",
	"sonm":    "sort_name",
	"soar":    "sort_artist",
	"soal":    "sort_album",
	"soaa":    "sort_album_artist",
	"soco":    "sort_composer",
	"tvsh":    "show",
	"tven":    "episode_id",
	"tvnn":    "network",
	"tves":    "episode_sort",
	"tvsn":    "season_number",
	"stik":    "stik",
	"hdvd":    "hd_video",
	"pgap":    "gapless_playback",
	"rtng":    "rating",
}

// sampleEntryCodecs maps stsd sample entry types onto decoder names.
var sampleEntryCodecs = map[string]string{
	"mp4a": "aac",
	"alac": "alac",
	"fLaC": "flac",
	"Opus": "opus",
	"ac-3": "ac3",
	"ec-3": "eac3",
	".mp3": "mp3",
	"avc1": "h264",
	"avc3": "h264",
	"mp4v": "mpeg4",
	"hvc1": "hevc",
	"hev1": "hevc",
	"jpeg": "mjpeg",
}

const (
	dataTypeUTF8    = 1
	dataTypeJPEG    = 13
	dataTypePNG     = 14
	dataTypeInteger = 21
)

type mp4Track struct {
	handler    string
	entry      string
	timescale  uint32
	duration   uint64
	sampleRate int
	channels   int
	sampleSize int
}

type ilstMarker struct{}

type mp4Reader struct {
	timescale uint32
	duration  uint64
	tracks    []*mp4Track
	tags      probe.Tags
	covers    [][]byte
	coverType []uint32
}

func readMP4(r io.ReadSeeker) (*probe.Container, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	reader := &mp4Reader{}
	if _, err := mp4.ReadBoxStructure(r, reader.visit); err != nil {
		return nil, err
	}
	if len(reader.tracks) == 0 {
		return nil, errors.New("mp4: no tracks")
	}
	return reader.container(), nil
}

func (m *mp4Reader) visit(h *mp4.ReadHandle) (interface{}, error) {
	boxType := h.BoxInfo.Type
	if inIlst(h.Params) {
		payload, err := readPayload(h)
		if err != nil {
			return nil, err
		}
		m.ilstItem(string(boxType[:]), payload)
		return nil, nil
	}

	switch boxType {
	case mp4.BoxTypeMoov(), mp4.BoxTypeMdia(), mp4.BoxTypeMinf(), mp4.BoxTypeStbl(),
		mp4.BoxTypeStsd(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta():
		return h.Expand(h.Params...)
	case mp4.BoxTypeTrak():
		track := &mp4Track{}
		m.tracks = append(m.tracks, track)
		return h.Expand(track)
	case mp4.BoxTypeIlst():
		return h.Expand(ilstMarker{})
	case mp4.BoxTypeMvhd():
		payload, err := readPayload(h)
		if err != nil {
			return nil, err
		}
		m.timescale, m.duration = parseMediaHeader(payload)
		return nil, nil
	}

	track := currentTrack(h.Params)
	if track == nil {
		return nil, nil
	}
	switch boxType {
	case mp4.BoxTypeMdhd():
		payload, err := readPayload(h)
		if err != nil {
			return nil, err
		}
		track.timescale, track.duration = parseMediaHeader(payload)
	case mp4.BoxTypeHdlr():
		payload, err := readPayload(h)
		if err != nil {
			return nil, err
		}
		if len(payload) >= 12 && track.handler == "" {
			track.handler = string(payload[8:12])
		}
	default:
		name := string(boxType[:])
		if _, ok := sampleEntryCodecs[name]; ok && track.entry == "" {
			track.entry = name
			if payload, err := readPayload(h); err == nil && len(payload) >= 28 {
				track.channels = int(binary.BigEndian.Uint16(payload[16:18]))
				track.sampleSize = int(binary.BigEndian.Uint16(payload[18:20]))
				track.sampleRate = int(binary.BigEndian.Uint16(payload[24:26]))
			}
		}
	}
	return nil, nil
}

func inIlst(params []interface{}) bool {
	for _, p := range params {
		if _, ok := p.(ilstMarker); ok {
			return true
		}
	}
	return false
}

func currentTrack(params []interface{}) *mp4Track {
	for _, p := range params {
		if t, ok := p.(*mp4Track); ok {
			return t
		}
	}
	return nil
}

func readPayload(h *mp4.ReadHandle) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := h.ReadData(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parseMediaHeader reads timescale and duration from an mvhd or mdhd payload.
func parseMediaHeader(payload []byte) (uint32, uint64) {
	if len(payload) < 4 {
		return 0, 0
	}
	if payload[0] == 1 {
		if len(payload) < 32 {
			return 0, 0
		}
		return binary.BigEndian.Uint32(payload[20:24]), binary.BigEndian.Uint64(payload[24:32])
	}
	if len(payload) < 20 {
		return 0, 0
	}
	return binary.BigEndian.Uint32(payload[12:16]), uint64(binary.BigEndian.Uint32(payload[16:20]))
}

type atom struct {
	kind    string
	payload []byte
}

// splitAtoms parses a run of size-prefixed child atoms.
func splitAtoms(data []byte) []atom {
	var atoms []atom
	for len(data) >= 8 {
		size := int(binary.BigEndian.Uint32(data[:4]))
		if size < 8 || size > len(data) {
			break
		}
		atoms = append(atoms, atom{kind: string(data[4:8]), payload: data[8:size]})
		data = data[size:]
	}
	return atoms
}

func (m *mp4Reader) ilstItem(kind string, payload []byte) {
	var name string
	for _, child := range splitAtoms(payload) {
		switch child.kind {
		case "name":
			if len(child.payload) > 4 {
				name = string(child.payload[4:])
			}
		case "data":
			if len(child.payload) < 8 {
				continue
			}
			dataType := binary.BigEndian.Uint32(child.payload[:4]) & 0x00FFFFFF
			value := child.payload[8:]
			if kind == "covr" {
				m.covers = append(m.covers, value)
				m.coverType = append(m.coverType, dataType)
				continue
			}
			key := ilstKeys[kind]
			if kind == "----" {
				key = name
			}
			if key == "" {
				continue
			}
			if text := itemText(kind, dataType, value); text != "" {
				m.tags.Add(key, text)
			}
		}
	}
}

func itemText(kind string, dataType uint32, value []byte) string {
	switch kind {
	case "trkn", "disk":
		if len(value) < 6 {
			return ""
		}
		n := binary.BigEndian.Uint16(value[2:4])
		total := binary.BigEndian.Uint16(value[4:6])
		if n == 0 && total == 0 {
			return ""
		}
		if total == 0 {
			return strconv.Itoa(int(n))
		}
		return strconv.Itoa(int(n)) + "/" + strconv.Itoa(int(total))
	case "gnre":
		if len(value) < 2 {
			return ""
		}
		if genre, ok := genreByIndex(int(binary.BigEndian.Uint16(value)) - 1); ok {
			return genre
		}
		return ""
	}
	if dataType == dataTypeUTF8 {
		return string(value)
	}
	if dataType == dataTypeInteger || dataType == 0 {
		if v, ok := beInt(value); ok {
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

func beInt(value []byte) (int64, bool) {
	switch len(value) {
	case 1:
		return int64(int8(value[0])), true
	case 2:
		return int64(int16(binary.BigEndian.Uint16(value))), true
	case 4:
		return int64(int32(binary.BigEndian.Uint32(value))), true
	case 8:
		return int64(binary.BigEndian.Uint64(value)), true
	}
	return 0, false
}

func (m *mp4Reader) container() *probe.Container {
	c := &probe.Container{
		FormatName:     "mov,mp4,m4a,3gp,3g2,mj2",
		FormatLongName: "QuickTime / MOV",
		Tags:           m.tags,
	}
	if m.timescale > 0 {
		c.Duration = time.Duration(float64(m.duration) / float64(m.timescale) * float64(time.Second))
	}
	for _, track := range m.tracks {
		s := probe.Stream{Index: len(c.Streams), Codec: sampleEntryCodecs[track.entry]}
		switch track.handler {
		case "soun":
			s.MediaType = probe.MediaAudio
			s.SampleRate = track.sampleRate
			s.Channels = track.channels
			s.SampleFormat = audioSampleFormat(s.Codec, track.sampleSize)
			s.BitsPerSample = track.sampleSize
		case "vide":
			s.MediaType = probe.MediaVideo
		default:
			s.MediaType = probe.MediaOther
		}
		if c.Duration == 0 && track.timescale > 0 {
			c.Duration = time.Duration(float64(track.duration) / float64(track.timescale) * float64(time.Second))
		}
		c.Streams = append(c.Streams, s)
	}
	for i, cover := range m.covers {
		mime := ""
		switch m.coverType[i] {
		case dataTypeJPEG:
			mime = "image/jpeg"
		case dataTypePNG:
			mime = "image/png"
		}
		c.Streams = append(c.Streams, attachedPicture(len(c.Streams), mime, cover, ""))
	}
	return c
}

// audioSampleFormat mirrors the output format of ffmpeg's decoders.
func audioSampleFormat(codec string, sampleSize int) string {
	switch codec {
	case "aac", "mp3", "opus", "ac3", "eac3":
		return "fltp"
	case "alac", "flac":
		if sampleSize > 16 {
			return "s32p"
		}
		return "s16p"
	}
	return ""
}
