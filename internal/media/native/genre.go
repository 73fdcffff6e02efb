package native

import (
	"strconv"
	"strings"
)

var id3v1Genres = []string{
	"Blues", "Classic Rock", "Country", "Dance", "Disco", "Funk", "Grunge", "Hip-Hop",
	"Jazz", "Metal", "New Age", "Oldies", "Other", "Pop", "R&B", "Rap",
	"Reggae", "Rock", "Techno", "Industrial", "Alternative", "Ska", "Death Metal", "Pranks",
	"Soundtrack", "Euro-Techno", "Ambient", "Trip-Hop", "Vocal", "Jazz+Funk", "Fusion", "Trance",
	"Classical", "Instrumental", "Acid", "House", "Game", "Sound Clip", "Gospel", "Noise",
	"AlternRock", "Bass", "Soul", "Punk", "Space", "Meditative", "Instrumental Pop", "Instrumental Rock",
	"Ethnic", "Gothic", "Darkwave", "Techno-Industrial", "Electronic", "Pop-Folk", "Eurodance", "Dream",
	"Southern Rock", "Comedy", "Cult", "Gangsta", "Top 40", "Christian Rap", "Pop/Funk", "Jungle",
	"Native American", "Cabaret", "New Wave", "Psychadelic", "Rave", "Showtunes", "Trailer", "Lo-Fi",
	"Tribal", "Acid Punk", "Acid Jazz", "Polka", "Retro", "Musical", "Rock & Roll", "Hard Rock",
}

func genreByIndex(idx int) (string, bool) {
	if idx < 0 || idx >= len(id3v1Genres) {
		return "", false
	}
	return id3v1Genres[idx], true
}

// resolveGenre expands numeric ID3v1 references such as "17" or "(17)".
func resolveGenre(value string) string {
	trimmed := strings.TrimSpace(value)
	ref := trimmed
	if strings.HasPrefix(ref, "(") {
		end := strings.IndexByte(ref, ')')
		if end < 0 {
			return trimmed
		}
		if rest := strings.TrimSpace(ref[end+1:]); rest != "" {
			return rest
		}
		ref = ref[1:end]
	}
	idx, err := strconv.Atoi(ref)
	if err != nil {
		return trimmed
	}
	if name, ok := genreByIndex(idx); ok {
		return name
	}
	return trimmed
}
