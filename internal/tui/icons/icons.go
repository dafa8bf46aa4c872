// ABOUTME: Icon system with Nerd Font detection and Unicode fallback
// ABOUTME: Config can force Nerd Fonts on; otherwise the terminal is sniffed once

package icons

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	detected     bool
	detectOnce   sync.Once
	forceEnabled atomic.Bool
)

// Enable forces Nerd Font glyphs regardless of terminal detection
func Enable(on bool) {
	forceEnabled.Store(on)
}

func detectNerdFonts() bool {
	if env := os.Getenv("STOREFRONT_NERD_FONTS"); env != "" {
		return env == "1" || strings.ToLower(env) == "true"
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"} {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// HasNerdFonts returns true if Nerd Font glyphs should be drawn
func HasNerdFonts() bool {
	if forceEnabled.Load() {
		return true
	}
	detectOnce.Do(func() {
		detected = detectNerdFonts()
	})
	return detected
}

// Icon represents an icon with Nerd Font and Unicode fallback variants
type Icon struct {
	NerdFont string
	Fallback string
}

// String returns the appropriate icon based on font availability
func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Shop
	App     = Icon{"󰓜", "◈"} // nf-md-storefront
	Product = Icon{"󰏗", "▣"} // nf-md-package_variant
	Cart    = Icon{"󰄐", "⊞"} // nf-md-cart
	Order   = Icon{"󰈙", "≡"} // nf-md-file_document
	Star    = Icon{"", "★"} // nf-fa-star
	StarOff = Icon{"", "☆"} // nf-fa-star_o
	Search  = Icon{"", "⌕"} // nf-fa-search
	Chart   = Icon{"󰄭", "▁"} // nf-md-chart_line

	// People
	User  = Icon{"", "☺"} // nf-fa-user
	Admin = Icon{"󰒃", "⛊"} // nf-md-shield_check
	Lock  = Icon{"", "⚿"} // nf-fa-lock

	// Status indicators
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	// Actions
	Refresh = Icon{"󰑓", "↻"} // nf-md-refresh
	Back    = Icon{"󰁍", "←"} // nf-md-arrow_left
	Quit    = Icon{"󰗼", "×"} // nf-md-exit_to_app
)
