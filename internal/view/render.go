package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/i18n"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var profileTemplate = template.Must(template.ParseFS(templateFS, "templates/profile.html"))

// pageData holds what the profile template needs.
type pageData struct {
	Lang             string
	Title            string
	Error            string
	Loading          bool
	RefreshSeconds   int
	Profile          *models.Profile
	DisplayNameLabel string
	UserIDLabel      string
	PictureAlt       string
	LoadingText      string
}

// Render writes the page for the current state. It reads state only, so rendering an
// unchanged state twice produces the same bytes.
func (v *ProfileView) Render(w io.Writer) error {
	s := v.State()
	p := v.printer

	data := pageData{
		Lang:             v.opts.Lang.String(),
		Title:            p.Sprintf(i18n.MsgTitle),
		DisplayNameLabel: p.Sprintf(i18n.MsgDisplayName),
		UserIDLabel:      p.Sprintf(i18n.MsgUserID),
		PictureAlt:       p.Sprintf(i18n.MsgPictureAlt),
		LoadingText:      p.Sprintf(i18n.MsgLoading),
		RefreshSeconds:   int(v.opts.RefreshInterval.Seconds()),
	}
	switch {
	case s.Err != "":
		data.Error = s.Err
	case s.Profile != nil:
		data.Profile = s.Profile
	default:
		data.Loading = true
	}
	if data.RefreshSeconds < 1 {
		data.RefreshSeconds = 1
	}
	return profileTemplate.Execute(w, data)
}
