package render

import "html/template"

var pageTemplate = template.Must(template.New("recipe").Parse(`<article class="recipe">
  <h1>{{ .Title }}</h1>
{{- if .Description }}
  <div class="recipe__description">{{ .Description }}</div>
{{- end }}
{{- if .Tags }}
  <ul class="recipe__tags">{{ range .Tags }}<li>{{ . }}</li>{{ end }}</ul>
{{- end }}
{{- if .Yields }}
  <ul class="recipe__yields">{{ range .Yields }}<li>{{ . }}</li>{{ end }}</ul>
{{- end }}
{{- range .Groups }}
  <section class="recipe__ingredients">
{{- if .Title }}
    <h2>{{ .Title }}</h2>
{{- end }}
    <ul>
{{- range .Ingredients }}
      <li>{{ if .Amount }}<em>{{ .Amount }}</em> {{ end }}{{ if .Href }}<a {{ .Href }}>{{ .Name }}</a>{{ else }}{{ .Name }}{{ end }}</li>
{{- end }}
    </ul>
  </section>
{{- end }}
{{- if .Instructions }}
  <div class="recipe__instructions">{{ .Instructions }}</div>
{{- end }}
</article>
`))
