// Package assets embeds the dashboard page and renders it into a single
// minified HTML document.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

//go:embed index.html.tpl style.css script.js favicon.svg
var files embed.FS

// Favicon is the raw site icon.
var Favicon = mustRead("favicon.svg")

// PageData is the template input of index.html.tpl.
type PageData struct {
	Title string
	CSS   template.CSS
	JS    template.JS
	SVG   template.HTML
}

// Minifier returns a minifier configured for every asset type of the page.
func Minifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	return m
}

// Render inlines the minified stylesheet, script and icon into the page
// template and minifies the result.
func Render(title string) ([]byte, error) {
	m := Minifier()

	cssMin, err := m.String("text/css", string(mustRead("style.css")))
	if err != nil {
		return nil, fmt.Errorf("minify css: %w", err)
	}
	jsMin, err := m.String("text/javascript", string(mustRead("script.js")))
	if err != nil {
		return nil, fmt.Errorf("minify js: %w", err)
	}
	svgMin, err := m.String("image/svg+xml", string(Favicon))
	if err != nil {
		return nil, fmt.Errorf("minify svg: %w", err)
	}

	tmpl, err := template.New("index").Parse(string(mustRead("index.html.tpl")))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, PageData{
		Title: title,
		CSS:   template.CSS(cssMin),
		JS:    template.JS(jsMin),
		SVG:   template.HTML(svgMin),
	})
	if err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify html: %w", err)
	}
	return out, nil
}

func mustRead(name string) []byte {
	data, err := files.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return data
}
