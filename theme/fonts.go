package theme

import "strings"

const FontSystem = "system"

const fallbackStack = "ui-sans-serif, system-ui, sans-serif"

var fontStacks = map[string]string{
	"inter":      `"Inter", ui-sans-serif, system-ui, sans-serif`,
	"roboto":     `"Roboto", ui-sans-serif, system-ui, sans-serif`,
	"playfair":   `"Playfair Display", ui-serif, Georgia, serif`,
	"montserrat": `"Montserrat", ui-sans-serif, system-ui, sans-serif`,
	"lora":       `"Lora", ui-serif, Georgia, serif`,
	"poppins":    `"Poppins", ui-sans-serif, system-ui, sans-serif`,
	"opensans":   `"Open Sans", ui-sans-serif, system-ui, sans-serif`,
}

// FontStack maps a font key to a CSS font-family list. Unknown keys and
// "system" get the platform stack.
func FontStack(key string) string {
	if stack, ok := fontStacks[strings.ToLower(strings.TrimSpace(key))]; ok {
		return stack
	}
	return fallbackStack
}

// FontKeys lists the keys with a dedicated stack, system first.
func FontKeys() []string {
	return []string{FontSystem, "inter", "roboto", "playfair", "montserrat", "lora", "poppins", "opensans"}
}
