package ui

// Built-in page content. These are the template's example pages; real
// applications replace them with their own.

const homeMarkdown = `# Welcome to Deskwing

This is a **minimalist desktop application template**: a local web UI wrapped
in a native window.

### Features

- **Desktop application** — runs in its own window, not a browser tab
- **Isolated server** — the UI server runs in a supervised worker process
- **Customizable** — branding and navigation come from ` + "`config/app.yaml`" + `
- **Extensible** — add pages by registering them in the page registry

### Getting started

1. Explore the example pages via the sidebar
2. Edit ` + "`config/app.yaml`" + ` to change the title, menu and theme
3. Register your own pages in ` + "`internal/ui`" + `
`

const feature1Markdown = `# Feature 1

An example feature page. Replace this content with your own.

| What | Where |
|------|-------|
| Page content | ` + "`internal/ui/content.go`" + ` |
| Menu entry | ` + "`config/app.yaml`" + ` |
| Layout and theme | ` + "`internal/ui/templates.go`" + ` |
`

const feature2Markdown = `# Feature 2

Another example feature page.

- Pages are plain markdown rendered server-side
- The sidebar highlights the active page
- Unknown menu entries show a placeholder with instructions
`

const aboutMarkdown = `# About the Project

**Deskwing** is a boilerplate for shipping a local web UI as a desktop
application.

### Architecture

- **UI server** — an HTTP server hosted in an isolated worker process
- **Supervisor** — spawns the worker, relays startup errors over a pipe, and
  guarantees clean shutdown (graceful, then forced)
- **Window shell** — a browser in app mode pointed at the local server
`

// placeholderMarkdown is the fallback body for menu entries without a
// registered page. Format arguments: page id (twice).
const placeholderMarkdown = `## 📝 Page Not Implemented

The page ` + "`%s`" + ` is in the menu but has no registered implementation.

### How to implement this page

Register a page with a matching identifier during server construction:

` + "```go" + `
registry.Register(ui.NewMarkdownPage("%s", "My Page", myPageMarkdown))
` + "```" + `

Then add your markdown content and restart the application.
`

// errorMarkdown is the body shown when rendering a page fails. Format
// argument: page id.
const errorMarkdown = `## ⚠️ Page Error

Rendering the page ` + "`%s`" + ` failed. Check the application log for the
underlying error, fix the page content, and reload.
`
