package tagmap

import "mediascan/internal/mediafile"

// Dictionary is a read-only tag source. Get must match keys
// case-insensitively and return the first matching entry.
type Dictionary interface {
	Get(key string) (string, bool)
}

// Extract applies m to dict and returns how many record fields were
// populated. Fields already set on mf are left alone, and malformed numbers
// are skipped.
func Extract(mf *mediafile.MediaFile, dict Dictionary, m *Map) int {
	if mf == nil || dict == nil || m == nil {
		return 0
	}
	count := 0
	for _, entry := range m.entries {
		raw, ok := dict.Get(entry.Key)
		if !ok || raw == "" {
			continue
		}
		count += apply(mf, entry, raw)
	}
	return count
}

func apply(mf *mediafile.MediaFile, entry Entry, raw string) int {
	if entry.Parser != nil {
		return entry.Parser.Parse(mf, raw)
	}
	switch entry.Kind {
	case KindText:
		if f := mf.Text(entry.Field); f != nil && f.Fill(raw) {
			return 1
		}
	case KindNumber:
		f := mf.Number(entry.Field)
		if f == nil || f.IsSet() {
			return 0
		}
		if v, ok := parseUint(raw); ok && f.Fill(v) {
			return 1
		}
	}
	return 0
}
