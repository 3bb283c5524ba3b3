package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Core palette
	Green       = lipgloss.Color("#00FF41")
	BrightGreen = lipgloss.Color("#39FF14")
	MedGreen    = lipgloss.Color("#00C832")
	DarkGreen   = lipgloss.Color("#008F11")
	DimGreen    = lipgloss.Color("#003B00")
	Cyan        = lipgloss.Color("#00D4AA")
	Amber       = lipgloss.Color("#FFB000")
	Red         = lipgloss.Color("#FF4136")
	Black       = lipgloss.Color("#0D0208")
	DarkGray    = lipgloss.Color("#1a1a2e")
	MidGray     = lipgloss.Color("#3a3a4e")
	LightGray   = lipgloss.Color("#aaaaaa")
	White       = lipgloss.Color("#e0e0e0")
)

var (
	headerStyle    = Style{Foreground: Black, Background: Green, Bold: true}
	headerDimStyle = Style{Foreground: Black, Background: DarkGreen}
	summaryStyle   = Style{Foreground: LightGray}
	searchStyle    = Style{Foreground: BrightGreen, Bold: true}
	separatorStyle = Style{Foreground: DimGreen}

	nameStyle     = Style{Foreground: White, Bold: true}
	textStyle     = Style{Foreground: White}
	dimStyle      = Style{Foreground: MidGray}
	favoriteStyle = Style{Foreground: Amber, Bold: true}
	selectedStyle = Style{Foreground: Black, Background: Green, Bold: true}
	columnStyle   = Style{Foreground: MedGreen, Bold: true}
	cardStyle     = Style{Foreground: DarkGreen}
	cardSelStyle  = Style{Foreground: BrightGreen, Bold: true}

	statusBarStyle = Style{Foreground: Black, Background: DarkGreen}
	statusOKStyle  = Style{Foreground: Black, Background: Green, Bold: true}
	statusErrStyle = Style{Foreground: White, Background: Red, Bold: true}

	overlayBoxStyle   = Style{Foreground: Green, Background: Black}
	overlayTitleStyle = Style{Foreground: BrightGreen, Background: Black, Bold: true}
	overlayTextStyle  = Style{Foreground: White, Background: Black}
	overlayKeyStyle   = Style{Foreground: Cyan, Background: Black, Bold: true}
)

// statusColors maps launcher statuses onto the palette.
var statusColors = map[string]lipgloss.Color{
	"ready":       Green,
	"loading":     Cyan,
	"running":     BrightGreen,
	"failed":      Red,
	"configuring": Amber,
}

func statusStyle(status string) Style {
	if c, ok := statusColors[status]; ok {
		return Style{Foreground: c}
	}
	return dimStyle
}
