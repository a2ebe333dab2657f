package extract

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

var audioByExt = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".webm": "audio/webm",
}

// DetectMIME prefers the file extension and falls back to content sniffing.
func DetectMIME(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := audioByExt[ext]; ok {
		return t
	}
	if ext != "" {
		if t := mime.TypeByExtension(ext); t != "" {
			if i := strings.IndexByte(t, ';'); i >= 0 {
				t = t[:i]
			}
			return t
		}
	}
	t := http.DetectContentType(data)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}
