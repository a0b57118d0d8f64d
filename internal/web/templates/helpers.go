package templates

import (
	"net/url"

	"github.com/a-h/templ"
)

func truncateID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func statusBadge(status string) string {
	switch status {
	case "recording":
		return "badge badge-recording"
	case "stopped", "completed":
		return "badge badge-stopped"
	default:
		return "badge"
	}
}

func readiness(ok bool) string {
	if ok {
		return "Connected"
	}
	return "Not connected"
}

func readinessClass(ok bool) string {
	if ok {
		return "status status-ok"
	}
	return "status status-down"
}

func sessionURL(id string) templ.SafeURL {
	return templ.SafeURL("/sessions/" + url.PathEscape(id))
}

func toolDownloadURL(file string) templ.SafeURL {
	return templ.SafeURL("/tools/download/" + url.PathEscape(file))
}

func generatedDownloadURL(sessionID string) templ.SafeURL {
	return templ.SafeURL("/tools/generated/" + url.PathEscape(sessionID) + "/download")
}
