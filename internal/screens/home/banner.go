package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/geoquiz/internal/ui/theme"
)

const bannerFull = `  ____             ___        _
 / ___| ___  ___  / _ \ _   _(_)____
| |  _ / _ \/ _ \| | | | | | | |_  /
| |_| |  __/ (_) | |_| | |_| | |/ /
 \____|\___|\___/ \__\_\\__,_|_/___|`

const bannerCompact = "G E O Q U I Z"

func renderBanner(width int, compact bool) string {
	art := bannerFull
	if compact {
		art = bannerCompact
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(art)
}
