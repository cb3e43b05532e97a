package ui

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>QueryBot</title>
<style>
body { font-family: sans-serif; max-width: 46rem; margin: 2rem auto; padding: 0 1rem; }
.banner { padding: .6rem .9rem; border-radius: 4px; margin: .6rem 0; }
.success { background: #e6f4ea; } .info { background: #e8f0fe; }
.warning { background: #fef7e0; } .error { background: #fce8e6; }
blockquote { border-left: 3px solid #ccc; margin: .5rem 0; padding-left: .8rem; color: #444; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>QueryBot Interface</h1>
<p>Welcome! This tool allows you to ask questions about a technical document.</p>

<h2>1. Upload a PDF</h2>
<form method="post" action="/upload" enctype="multipart/form-data">
<input type="file" name="file" accept="application/pdf,.pdf">
<button type="submit">Upload and Process</button>
</form>
{{with .Upload}}{{template "banners" .}}{{end}}

<hr>

<h2>2. Ask a Question</h2>
<form method="post" action="/ask">
<input type="text" name="question" size="60" value="{{.Question}}" placeholder="e.g., What is the self-attention mechanism?">
<button type="submit">Ask</button>
</form>
{{with .Ask}}{{template "banners" .}}{{end}}
{{with .Answer}}
<h3>Answer:</h3>
<p>{{.Answer}}</p>
{{if .Context}}<h4>Context</h4>{{range .Context}}<blockquote>{{.}}</blockquote>{{end}}{{end}}
{{end}}
</body>
</html>
{{define "banners"}}{{if .Success}}<div class="banner success">{{.Success}}</div>{{end}}{{if .Info}}<div class="banner info">{{.Info}}</div>{{end}}{{if .Warning}}<div class="banner warning">{{.Warning}}</div>{{end}}{{range .Errors}}<div class="banner error">{{.}}</div>{{end}}{{end}}
`
