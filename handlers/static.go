package handlers

import "net/http"

// faviconICO is a minimal 1x1 transparent icon so browsers probing
// /favicon.ico do not log 404s.
var faviconICO = []byte{
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x18, 0x00,
	0x28, 0x00, 0x00, 0x00, 0x16, 0x00, 0x00, 0x00, 0x28, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x18, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// GetRoot redirects to the manifest so pasting the addon base URL into
// Stremio works.
func GetRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/manifest.json", http.StatusFound)
}

// GetFavicon serves the embedded icon.
func GetFavicon(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/x-icon")
	_, _ = w.Write(faviconICO)
}
