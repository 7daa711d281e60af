// Package i18n holds the page's fixed strings and picks the language for a request.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "lang"
)

// Message keys. English is the source text.
const (
	MsgTitle         = "LINE MINI App with Go"
	MsgInitFailed    = "Failed to initialize LIFF."
	MsgProfileFailed = "Failed to retrieve the profile."
	MsgLoading       = "Loading..."
	MsgDisplayName   = "Display Name"
	MsgUserID        = "User ID"
	MsgPictureAlt    = "Profile"
)

var supported = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supported)

func init() {
	set := func(key, ja string) {
		if err := message.SetString(language.Japanese, key, ja); err != nil {
			panic(err)
		}
	}
	set(MsgInitFailed, "LIFFの初期化に失敗しました。")
	set(MsgProfileFailed, "プロフィールの取得に失敗しました。")
	set(MsgLoading, "読み込み中...")
	set(MsgPictureAlt, "プロフィール画像")
}

// ParseTag maps a raw tag to a supported language.
func ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Und, false
	}
	matched, _, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Und, false
	}
	base, _ := matched.Base()
	return language.Make(base.String()), true
}

// ResolveTag determines the language for the request: lang query param, then the lang
// cookie, then Accept-Language, then fallback.
func ResolveTag(r *http.Request, fallback language.Tag) language.Tag {
	if r == nil {
		return fallback
	}
	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			matched, _, confidence := matcher.Match(tags...)
			if confidence != language.No {
				base, _ := matched.Base()
				return language.Make(base.String())
			}
		}
	}
	return fallback
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
