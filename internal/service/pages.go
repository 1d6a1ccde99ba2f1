package service

import (
	"strings"

	"cors-anywhere-go/internal/headers"
	"cors-anywhere-go/internal/model"
)

const (
	banner     = "CLOUDFLARE-CORS-ANYWHERE"
	projectURL = "https://github.com/Zibri/cloudflare-cors-anywhere"
	donateURL  = "https://paypal.me/Zibri/5"
)

// deniedPage is served with 403 to every request the policy rejects.
const deniedPage = "Create your own CORS proxy</br>\n" +
	"<a href='" + projectURL + "'>" + projectURL + "</a></br>\n" +
	"\nDonate</br>\n" +
	"<a href='" + donateURL + "'>" + donateURL + "</a>\n"

// limitsNote is informational only; nothing here enforces it.
const limitsNote = "Limits: 100,000 requests/day\n" +
	"          1,000 requests/10 minutes\n\n"

// infoPage renders the plain-text page returned when no target is given.
func infoPage(req *model.Request, overlay headers.Overlay, hasOverlay bool) string {
	var b strings.Builder

	b.WriteString(banner + "\n\n")
	b.WriteString("Source:\n" + projectURL + "\n\n")
	b.WriteString("Usage:\n" + req.Origin + "/?uri\n\n")
	b.WriteString("Donate:\n" + donateURL + "\n\n")
	b.WriteString(limitsNote)

	if origin, ok := headers.Value(req.Header, headers.Origin); ok {
		b.WriteString("Origin: " + origin + "\n")
	}
	b.WriteString("IP: " + req.Conn.IP + "\n")
	if req.Conn.Country != "" {
		b.WriteString("Country: " + req.Conn.Country + "\n")
	}
	if req.Conn.Datacenter != "" {
		b.WriteString("Datacenter: " + req.Conn.Datacenter + "\n")
	}
	b.WriteString("\n")

	if hasOverlay {
		b.WriteString("\nx-cors-headers: " + overlay.String())
	}
	return b.String()
}
