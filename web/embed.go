// Package web embeds the dashboard UI so the binary ships self-contained.
package web

import "embed"

// TemplatesFS holds the server-rendered HTML templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and browser-side application code.
//
//go:embed static/*
var StaticFS embed.FS
