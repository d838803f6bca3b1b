package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/a-h/templ"
)

// handleIndex serves the driving console: a list of defined elements and a
// small client that speaks the session protocol over WebSocket.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage(s).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "index render failed")
	}
}

// indexPage builds the console shell. Element tags and their observed
// attributes come straight from the registry, so the page always reflects
// the loaded manifests.
func indexPage(s *Server) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		classes := s.registry.GetAll()
		tags := make([]string, 0, len(classes))
		for tag := range classes {
			tags = append(tags, tag)
		}
		sort.Strings(tags)

		if _, err := io.WriteString(w, `<!DOCTYPE html>
<html>
<head>
    <title>weld console</title>
    <style>
        body { font-family: monospace; margin: 2rem; }
        .element { border: 1px solid #ccc; padding: 1rem; margin-bottom: 1rem; }
        .attrs { color: #666; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1>weld console</h1>
    <p>Defined elements:</p>
`); err != nil {
			return err
		}

		for _, tag := range tags {
			class := classes[tag]
			attrs := class.ObservedAttributes()
			if _, err := fmt.Fprintf(w,
				"    <div class=\"element\"><strong>&lt;%s&gt;</strong><div class=\"attrs\">observed: %v</div></div>\n",
				tag, attrs); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `    <script>
        const ws = new WebSocket('ws://' + location.host + '/ws');
        ws.onmessage = (e) => {
            const msg = JSON.parse(e.data);
            console.log('weld:', msg);
        };
        window.weld = {
            send: (msg) => ws.send(JSON.stringify(msg)),
        };
    </script>
</body>
</html>
`)
		return err
	})
}
