package types

import "html/template"

// PageData is a struct to hold web page data
type PageData struct {
	Active              string
	Meta                *Meta
	Data                interface{}
	Version             string
	BuildTime           string
	Year                int
	ExplorerTitle       string
	ExplorerSubtitle    string
	TokenSymbol         string
	ChainName           string
	ChainSlotsPerEpoch  uint64
	ChainSecondsPerSlot uint64
	InfoBanner          *template.HTML
	Debug               bool
	DebugTemplates      []string
	MainMenuItems       []MainMenuItem
	Connection          *ConnectionPanel
}

// ConnectionPanel is shown on every page while a configured node is unreachable
type ConnectionPanel struct {
	BeaconError    string
	ExecutionError string
}

type MainMenuItem struct {
	Label    string
	Path     string
	IsActive bool
	Groups   []NavigationGroup
}

type NavigationGroup struct {
	Links []NavigationLink
}

type NavigationLink struct {
	Label    string
	Path     string
	Icon     string
	IsHidden bool
}

// Meta is a struct to hold metadata about the page
type Meta struct {
	Title       string
	Description string
	Domain      string
	Path        string
	Templates   string
}

type Empty struct{}

type NamedValidator struct {
	Index uint64 `json:"index"`
	Name  string `json:"name"`
}
