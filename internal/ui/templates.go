package ui

// layoutTemplate is the single-page layout: sidebar navigation on the left,
// page content on the right. Theme colors are injected from configuration.
const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.AppTitle}} — {{.PageTitle}}</title>
<style>
  :root {
    --primary: {{.Theme.PrimaryColor}};
    --background: {{.Theme.BackgroundColor}};
    --secondary-background: {{.Theme.SecondaryBackgroundColor}};
    --text: {{.Theme.TextColor}};
  }
  * { box-sizing: border-box; }
  body {
    margin: 0;
    display: flex;
    min-height: 100vh;
    font-family: {{.Theme.Font}};
    background: var(--background);
    color: var(--text);
  }
  nav {
    width: 240px;
    flex-shrink: 0;
    background: var(--secondary-background);
    padding: 1rem 0.75rem;
  }
  nav h1 {
    font-size: 1.1rem;
    margin: 0 0 1rem 0.5rem;
  }
  nav a {
    display: block;
    padding: 0.5rem 0.75rem;
    margin-bottom: 0.25rem;
    border-radius: 6px;
    color: var(--text);
    text-decoration: none;
  }
  nav a.active {
    background: var(--primary);
    color: var(--background);
  }
  nav .version {
    margin-top: 2rem;
    margin-left: 0.5rem;
    font-size: 0.75rem;
    opacity: 0.6;
  }
  main {
    flex-grow: 1;
    padding: 2rem 3rem;
    max-width: 56rem;
  }
  main a { color: var(--primary); }
  table { border-collapse: collapse; }
  th, td { border: 1px solid var(--secondary-background); padding: 0.4rem 0.8rem; }
  code {
    background: var(--secondary-background);
    padding: 0.1rem 0.3rem;
    border-radius: 4px;
  }
  pre code { display: block; padding: 0.75rem; overflow-x: auto; }
</style>
</head>
<body>
<nav>
  <h1>{{.AppTitle}}</h1>
  {{range .Menu}}
  <a href="/pages/{{.Page}}"{{if eq .Page $.ActivePage}} class="active"{{end}}>{{if .Icon}}{{.Icon}} {{end}}{{.Label}}</a>
  {{end}}
  <div class="version">deskwing {{.Version}}</div>
</nav>
<main>
{{.Body}}
</main>
</body>
</html>
`
