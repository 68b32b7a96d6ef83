package httpapi

import (
	"html/template"
	"net/http"
)

// The gateway's feed is an MJPEG endpoint, which browsers render natively
// inside an img tag; no player is needed.
var streamPageTmpl = template.Must(template.New("stream").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Alertify Live Stream</title>
<style>
body { margin: 0; background: #000; display: flex; justify-content: center; align-items: center; height: 100vh; }
img { max-width: 100%; max-height: 100%; }
</style>
</head>
<body>
<img src="{{.}}" alt="live camera feed">
</body>
</html>
`))

func (a *API) streamPage(w http.ResponseWriter, r *http.Request) {
	streamURL, err := a.service.StreamURL(r.Context())
	if err != nil {
		writeRemoteError(w, "stream_url_failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := streamPageTmpl.Execute(w, streamURL); err != nil {
		a.logger.Warn("stream page render failed", "err", err)
	}
}
