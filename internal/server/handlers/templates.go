package handlers

const layoutHTMLTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/assets/chroma.css">
<style>
body { font-family: system-ui, sans-serif; margin: 0; color: #18181b; }
.layout { display: flex; min-height: 100vh; }
nav.sidebar { width: 16rem; padding: 1rem; border-right: 1px solid #e4e4e7; }
nav.sidebar a { color: inherit; text-decoration: none; }
nav.sidebar a.active { font-weight: 600; color: #2563eb; }
main { flex: 1; max-width: 48rem; padding: 1rem 2rem; }
aside.toc { width: 14rem; padding: 1rem; font-size: 0.875rem; }
.callout { border-left: 4px solid; border-radius: 0.25rem; padding: 0.5rem 1rem; margin: 1rem 0; }
.callout-title { font-weight: 600; margin: 0 0 0.25rem; }
.callout-note { border-color: #3b82f6; background: #eff6ff; }
.callout-tip { border-color: #22c55e; background: #f0fdf4; }
.callout-important { border-color: #a855f7; background: #faf5ff; }
.callout-warning { border-color: #eab308; background: #fefce8; }
.callout-caution { border-color: #ef4444; background: #fef2f2; }
.docs-table { overflow-x: auto; }
.docs-table table { border-collapse: collapse; }
.docs-table th, .docs-table td { border: 1px solid #e4e4e7; padding: 0.25rem 0.75rem; }
figure.diagram { margin: 1rem 0; text-align: center; }
.diagram-error { border: 1px solid #ef4444; padding: 0.5rem 1rem; }
</style>
</head>
<body>
{{template "main" .}}
</body>
</html>
`

const pageHTMLTemplate = `{{define "main"}}<div class="layout">
<nav class="sidebar">
  <select onchange="location.href=this.value" aria-label="Documentation source">
  {{- range .Nav.Sources}}
    <option value="{{.Href}}"{{if .Active}} selected{{end}}>{{.Title}}</option>
  {{- end}}
  </select>
  {{- range .Nav.Sections}}
  <h4>{{.Title}}</h4>
  <ul>
    {{- range .Pages}}
    <li><a href="{{.Href}}"{{if .Active}} class="active" aria-current="page"{{end}}>{{.Title}}</a></li>
    {{- end}}
  </ul>
  {{- end}}
</nav>
<main>
<article class="docs-content">
{{.Body}}
</article>
</main>
{{- if .Headings}}
<aside class="toc">
  <p>On this page</p>
  <ul>
  {{- range .Headings}}
    <li class="toc-level-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></li>
  {{- end}}
  </ul>
</aside>
{{- end}}
</div>
{{- if .ClientDiagrams}}
<script type="module">
import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
mermaid.initialize({ startOnLoad: true });
</script>
{{- end}}
{{end}}`

const errorHTMLTemplate = `{{define "main"}}<main class="error-page">
<h1>{{.Status}} {{.Title}}</h1>
<p>{{.Message}}</p>
<p><a href="/">Back to the documentation</a></p>
</main>
{{end}}`
