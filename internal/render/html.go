package render

import (
	"bytes"
	"html/template"
)

// htmlTemplate escapes every interpolated value; hrefs with unsafe schemes
// are neutralised by html/template.
var htmlTemplate = template.Must(template.New("trip").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; margin: 2rem auto; max-width: 48rem; color: #222; }
.trip-header { background: #0077cc; color: #fff; padding: 1rem 1.5rem; border-radius: 8px; }
.bucket h2 { border-bottom: 1px solid #ddd; padding-bottom: .25rem; }
.item { border: 1px solid #ddd; border-radius: 8px; padding: .75rem 1rem; margin: .75rem 0; }
.item h3 { margin: 0 0 .25rem; }
.meta { color: #555; font-size: .9rem; margin: .15rem 0; }
</style>
</head>
<body>
<div class="trip-header">
<h1>{{.Title}}</h1>
<p>{{.Dates}}</p>
</div>
{{range .Buckets}}<section class="bucket">
<h2>{{.Key}}</h2>
{{range .Items}}<div class="item">
<h3>{{.Name}}</h3>
<p class="meta">Type: {{.Type}}</p>
{{with .Start}}<p class="meta">Start: {{.}}</p>
{{end}}{{with .End}}<p class="meta">End: {{.}}</p>
{{end}}{{with .Cost}}<p class="meta">Cost: {{.}}</p>
{{end}}{{with .Link}}<p class="meta">Link: <a href="{{.}}">{{.}}</a></p>
{{end}}{{with .Notes}}<p>{{.}}</p>
{{end}}</div>
{{end}}</section>
{{end}}<section class="budget">
<h2>Budget</h2>
{{range .Embedded}}<p class="meta">Embedded: {{.}}</p>
{{end}}{{range .Explicit}}<p class="meta">Explicit: {{.}}</p>
{{end}}</section>
</body>
</html>
`))

// HTML renders the trip as a standalone styled page. Optional lines (start,
// end, cost, link, notes) appear only when the value is present.
func HTML(in Input) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, buildView(in)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
